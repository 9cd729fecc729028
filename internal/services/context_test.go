package services_test

import (
	"context"
	"testing"

	"burnish/internal/services"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithItemID(ctx, "gid://catalog/Item/42")
	ctx = services.WithBatchID(ctx, "batch-1")
	ctx = services.WithRequestID(ctx, "req-9")

	if id, ok := services.ItemIDFromContext(ctx); !ok || id != "gid://catalog/Item/42" {
		t.Fatalf("unexpected item id: %q ok=%v", id, ok)
	}
	if id, ok := services.BatchIDFromContext(ctx); !ok || id != "batch-1" {
		t.Fatalf("unexpected batch id: %q ok=%v", id, ok)
	}
	if id, ok := services.RequestIDFromContext(ctx); !ok || id != "req-9" {
		t.Fatalf("unexpected request id: %q ok=%v", id, ok)
	}
}

func TestContextEmptyValuesIgnored(t *testing.T) {
	ctx := services.WithItemID(context.Background(), "")
	if _, ok := services.ItemIDFromContext(ctx); ok {
		t.Fatal("expected empty item id to be dropped")
	}
	if _, ok := services.BatchIDFromContext(context.Background()); ok {
		t.Fatal("expected no batch id on fresh context")
	}
}
