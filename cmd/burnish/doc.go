// Command burnish drives bulk catalog enhancement from the terminal: enqueue
// item ids for AI rewriting, review staged proposals, and publish them back
// to the catalog.
package main
