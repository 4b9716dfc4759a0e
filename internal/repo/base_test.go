package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type widget struct {
	ID    uuid.UUID `gorm:"type:text;primaryKey"`
	Name  string
	Stock int
}

func openStore(t *testing.T) Store[widget] {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	require.NoError(t, db.AutoMigrate(&widget{}))
	return NewStore[widget](db)
}

func TestStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	w := &widget{ID: uuid.New(), Name: "oak shelf", Stock: 2}
	_, err := store.Create(ctx, w)
	require.NoError(t, err)

	require.NoError(t, store.SetColumn(ctx, w.ID, "stock", 5))
	got, err := store.ByID(ctx, w.ID)
	require.NoError(t, err)
	require.Equal(t, 5, got.Stock)

	got.Name = "pine shelf"
	_, err = store.Save(ctx, got)
	require.NoError(t, err)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = store.ByID(ctx, uuid.New())
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestStoreBindsContextAndTx(t *testing.T) {
	store := openStore(t)

	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")
	require.Equal(t, ctx, store.DB(ctx).Statement.Context)
	require.Same(t, store.db, store.DB(nil))

	err := store.db.Transaction(func(tx *gorm.DB) error {
		bound := store.Bind(tx)
		require.Same(t, tx, bound.db)
		_, err := bound.Create(ctx, &widget{ID: uuid.New(), Name: "rolled back"})
		require.NoError(t, err)
		return errors.New("abort")
	})
	require.Error(t, err)

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
}
