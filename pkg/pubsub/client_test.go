package pubsub

import (
	"context"
	"testing"

	"github.com/totofurniture/furnistore-backend/pkg/config"
)

func TestResourceName(t *testing.T) {
	cases := []struct {
		project, kind, name, want string
	}{
		{"furni-prod", "topics", "furnistore-orders", "projects/furni-prod/topics/furnistore-orders"},
		{"furni-prod", "subscriptions", " furnistore-analytics ", "projects/furni-prod/subscriptions/furnistore-analytics"},
		{"furni-prod", "topics", "projects/other/topics/orders", "projects/other/topics/orders"},
		{"furni-prod", "subscriptions", "projects/other/topics/orders", "projects/furni-prod/subscriptions/projects/other/topics/orders"},
		{"", "topics", "orders", ""},
		{"furni-prod", "topics", "  ", ""},
	}
	for _, tc := range cases {
		if got := resourceName(tc.project, tc.kind, tc.name); got != tc.want {
			t.Fatalf("resourceName(%q, %q, %q) = %q, want %q", tc.project, tc.kind, tc.name, got, tc.want)
		}
	}
}

func TestNonBlank(t *testing.T) {
	got := nonBlank(" orders ", "", "  ", "customers")
	if len(got) != 2 || got[0] != "orders" || got[1] != "customers" {
		t.Fatalf("unexpected names %v", got)
	}
}

func TestNewClientValidatesConfig(t *testing.T) {
	ctx := context.Background()
	if _, err := NewPublisherClient(ctx, config.GCPConfig{}, config.PubSubConfig{OrdersTopic: "orders"}, nil); err != errProjectIDRequired {
		t.Fatalf("expected project id error, got %v", err)
	}
	if _, err := NewSubscriberClient(ctx, config.GCPConfig{ProjectID: "furni"}, config.PubSubConfig{}, nil); err != errNothingRequired {
		t.Fatalf("expected missing subscription error, got %v", err)
	}
}

func TestNilClient(t *testing.T) {
	var c *Client
	if err := c.Ping(context.Background()); err != errNotInitialized {
		t.Fatalf("expected not initialized, got %v", err)
	}
	if c.Publisher("orders") != nil || c.Subscription("analytics") != nil {
		t.Fatal("nil client should hand out nil handles")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
