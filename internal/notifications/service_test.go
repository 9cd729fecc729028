package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"burnish/internal/config"
	"burnish/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyBatchCompleted(context.Background(), 3, 0, time.Minute); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

type captured struct {
	title    string
	message  string
	tags     string
	priority string
}

func newCaptureService(t *testing.T, cfg config.Config) (notifications.Service, *[]captured) {
	t.Helper()
	var requests []captured
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, captured{
			title:    r.Header.Get("Title"),
			message:  string(body),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
		})
	}))
	t.Cleanup(server.Close)
	cfg.Notifications.NtfyTopic = server.URL
	return notifications.NewService(&cfg), &requests
}

func TestNtfyServiceFormatsBatchEvents(t *testing.T) {
	svc, requests := newCaptureService(t, config.Default())
	ctx := context.Background()

	if err := svc.NotifyBatchStarted(ctx, 5); err != nil {
		t.Fatalf("NotifyBatchStarted: %v", err)
	}
	if err := svc.NotifyBatchCompleted(ctx, 4, 1, 90*time.Second); err != nil {
		t.Fatalf("NotifyBatchCompleted: %v", err)
	}
	if err := svc.NotifyBatchCancelled(ctx, 2, 3); err != nil {
		t.Fatalf("NotifyBatchCancelled: %v", err)
	}

	got := *requests
	if len(got) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(got))
	}
	if got[0].title != "Burnish - Batch Started" || !strings.Contains(got[0].message, "5 items") {
		t.Fatalf("unexpected start notification: %+v", got[0])
	}
	if got[1].title != "Burnish - Batch Complete (with errors)" {
		t.Fatalf("unexpected completion title: %q", got[1].title)
	}
	if !strings.Contains(got[1].message, "4 staged, 1 failed in 1m30s") {
		t.Fatalf("unexpected completion message: %q", got[1].message)
	}
	if !strings.Contains(got[2].message, "2 items processed, 3 abandoned") {
		t.Fatalf("unexpected cancel message: %q", got[2].message)
	}
}

func TestNtfyServicePublishAndError(t *testing.T) {
	svc, requests := newCaptureService(t, config.Default())
	ctx := context.Background()

	if err := svc.NotifyPublishCompleted(ctx, 2, 1); err != nil {
		t.Fatalf("NotifyPublishCompleted: %v", err)
	}
	if err := svc.NotifyError(ctx, errors.New("boom"), "item item-9"); err != nil {
		t.Fatalf("NotifyError: %v", err)
	}

	got := *requests
	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	if got[0].priority != "high" || !strings.Contains(got[0].message, "1 failed and remain staged") {
		t.Fatalf("unexpected publish notification: %+v", got[0])
	}
	if !strings.Contains(got[1].message, "Error with item item-9: boom") {
		t.Fatalf("unexpected error message: %q", got[1].message)
	}
}

func TestNtfyServiceRespectsEventToggles(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.Batch = false
	cfg.Notifications.Publish = false
	cfg.Notifications.Errors = false
	svc, requests := newCaptureService(t, cfg)
	ctx := context.Background()

	if err := svc.NotifyBatchStarted(ctx, 1); err != nil {
		t.Fatalf("NotifyBatchStarted: %v", err)
	}
	if err := svc.NotifyPublishCompleted(ctx, 1, 0); err != nil {
		t.Fatalf("NotifyPublishCompleted: %v", err)
	}
	if err := svc.NotifyError(ctx, errors.New("boom"), ""); err != nil {
		t.Fatalf("NotifyError: %v", err)
	}
	// Test notifications bypass the toggles.
	if err := svc.TestNotification(ctx); err != nil {
		t.Fatalf("TestNotification: %v", err)
	}

	got := *requests
	if len(got) != 1 || got[0].title != "Burnish - Test" {
		t.Fatalf("expected only the test notification, got %+v", got)
	}
}

func TestNtfyServiceSurfacesHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic quota exceeded", http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)

	err := svc.NotifyBatchStarted(context.Background(), 1)
	if err == nil || !strings.Contains(err.Error(), "ntfy returned 429") {
		t.Fatalf("expected ntfy error, got %v", err)
	}
}
