package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestRunWithServerWithoutAddrRunsInline(t *testing.T) {
	want := errors.New("stopped")
	err := RunWithServer(context.Background(), "", prometheus.NewRegistry(), func(context.Context) error {
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}

func TestRunWithServerStopsServerWhenRunReturns(t *testing.T) {
	ran := false
	err := RunWithServer(context.Background(), "127.0.0.1:0", prometheus.NewRegistry(), func(ctx context.Context) error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Fatal("run function was not called")
	}
}

func TestRunWithServerPropagatesCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RunWithServer(ctx, "127.0.0.1:0", prometheus.NewRegistry(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
