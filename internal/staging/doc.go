// Package staging persists proposed-but-unpublished catalog changes so a
// merchant can review them before committing. Entries are keyed by tenant and
// item id in a SQLite database, survive process restarts, and expire after a
// configurable TTL. A publish success deletes the entry immediately; the
// store never holds an entry in published state.
package staging
