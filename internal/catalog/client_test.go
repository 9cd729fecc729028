package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"burnish/internal/catalog"
	"burnish/internal/config"
	"burnish/internal/services"
)

func newTestClient(t *testing.T, handler http.Handler) *catalog.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return catalog.NewClient(config.Catalog{
		BaseURL:        server.URL,
		AccessToken:    "tok",
		Tenant:         "shop",
		TimeoutSeconds: 5,
	})
}

func TestGetItemNormalizesSnapshot(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("unexpected method %s", r.Method)
		}
		if r.URL.Path != "/items/item-1" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Tenant") != "shop" || r.Header.Get("X-Access-Token") != "tok" {
			t.Fatal("expected tenant and token headers")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"item": map[string]any{
				"id": "item-1",
				"snapshot": map[string]any{
					"title":       "  Walnut Desk  ",
					"description": "Solid walnut.",
					"handle":      "walnut-desk",
					"tags":        []string{" oak ", ""},
				},
			},
		})
	}))

	item, err := client.GetItem(context.Background(), "item-1")
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if item.Snapshot.Title != "Walnut Desk" {
		t.Fatalf("expected trimmed title, got %q", item.Snapshot.Title)
	}
	if len(item.Snapshot.Tags) != 1 || item.Snapshot.Tags[0] != "oak" {
		t.Fatalf("expected normalized tags, got %v", item.Snapshot.Tags)
	}
}

func TestGetItemMapsNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such item", http.StatusNotFound)
	}))

	_, err := client.GetItem(context.Background(), "missing")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found marker, got %v", err)
	}
}

func TestUpdateItemSuccess(t *testing.T) {
	var received struct {
		Item catalog.Item `json:"item"`
	}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Fatalf("unexpected method %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "item_id": "item-1"})
	}))

	err := client.UpdateItem(context.Background(), "item-1", catalog.Snapshot{Title: "New Title", Handle: "new-title"})
	if err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	if received.Item.ID != "item-1" || received.Item.Snapshot.Title != "New Title" {
		t.Fatalf("unexpected request payload: %+v", received)
	}
}

func TestUpdateItemClassifiesFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		marker error
	}{
		{"validation", http.StatusUnprocessableEntity, services.ErrValidation},
		{"quota", http.StatusTooManyRequests, services.ErrQuota},
		{"unavailable", http.StatusServiceUnavailable, services.ErrUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, tc.name, tc.status)
			}))
			err := client.UpdateItem(context.Background(), "item-1", catalog.Snapshot{Title: "x"})
			if !errors.Is(err, tc.marker) {
				t.Fatalf("expected %v marker, got %v", tc.marker, err)
			}
		})
	}
}

func TestUpdateItemRejectedWithoutStatusCode(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "handle already taken"})
	}))

	err := client.UpdateItem(context.Background(), "item-1", catalog.Snapshot{Title: "x"})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
}

func TestGetItemRequiresID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))
	if _, err := client.GetItem(context.Background(), "  "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
