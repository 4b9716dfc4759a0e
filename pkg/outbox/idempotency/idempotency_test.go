package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	claimed     map[string]time.Duration
	setNXError  error
	lastDeleted string
}

func newFakeStore() *fakeStore {
	return &fakeStore{claimed: map[string]time.Duration{}}
}

func (f *fakeStore) SetNX(_ context.Context, key string, _ any, ttl time.Duration) (bool, error) {
	if f.setNXError != nil {
		return false, f.setNXError
	}
	if _, ok := f.claimed[key]; ok {
		return false, nil
	}
	f.claimed[key] = ttl
	return true, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.claimed, key)
		f.lastDeleted = key
	}
	return nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return "fs:idempotency:" + scope + ":" + id
}

func TestCheckAndMarkProcessed(t *testing.T) {
	store := newFakeStore()
	manager, err := NewManager(store, 7*24*time.Hour)
	require.NoError(t, err)

	eventID := uuid.New()
	already, err := manager.CheckAndMarkProcessed(context.Background(), "analytics", eventID)
	require.NoError(t, err)
	require.False(t, already)

	key := "fs:idempotency:evt:processed:analytics:" + eventID.String()
	require.Equal(t, 7*24*time.Hour, store.claimed[key])

	already, err = manager.CheckAndMarkProcessed(context.Background(), "analytics", eventID)
	require.NoError(t, err)
	require.True(t, already)

	other, err := manager.CheckAndMarkProcessed(context.Background(), "ledger", eventID)
	require.NoError(t, err)
	require.False(t, other, "claims are per consumer")
}

func TestDeleteReleasesClaim(t *testing.T) {
	store := newFakeStore()
	manager, err := NewManager(store, time.Hour)
	require.NoError(t, err)

	eventID := uuid.New()
	_, err = manager.CheckAndMarkProcessed(context.Background(), "analytics", eventID)
	require.NoError(t, err)
	require.NoError(t, manager.Delete(context.Background(), "analytics", eventID))
	require.Equal(t, "fs:idempotency:evt:processed:analytics:"+eventID.String(), store.lastDeleted)

	already, err := manager.CheckAndMarkProcessed(context.Background(), "analytics", eventID)
	require.NoError(t, err)
	require.False(t, already)
}

func TestManagerRejectsBadInput(t *testing.T) {
	_, err := NewManager(nil, time.Hour)
	require.Error(t, err)
	_, err = NewManager(newFakeStore(), -time.Second)
	require.Error(t, err)

	manager, err := NewManager(&fakeStore{setNXError: errors.New("boom")}, time.Hour)
	require.NoError(t, err)
	_, err = manager.CheckAndMarkProcessed(context.Background(), "analytics", uuid.New())
	require.ErrorContains(t, err, "boom")
	_, err = manager.CheckAndMarkProcessed(context.Background(), "", uuid.New())
	require.ErrorContains(t, err, "consumer")
	_, err = manager.CheckAndMarkProcessed(context.Background(), "analytics", uuid.Nil)
	require.ErrorContains(t, err, "event id")
}
