// Package repo holds the gorm plumbing shared by the domain repositories.
package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is a typed gorm handle for a single model table.
type Store[T any] struct {
	db *gorm.DB
}

func NewStore[T any](db *gorm.DB) Store[T] {
	return Store[T]{db: db}
}

// Bind returns a store running on tx, typically inside TxRunner.WithTx.
func (s Store[T]) Bind(tx *gorm.DB) Store[T] {
	return Store[T]{db: tx}
}

// DB scopes the handle to ctx. A nil ctx yields the bare handle.
func (s Store[T]) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return s.db
	}
	return s.db.WithContext(ctx)
}

// Table returns a query already bound to T's table.
func (s Store[T]) Table(ctx context.Context) *gorm.DB {
	var zero T
	return s.DB(ctx).Model(&zero)
}

func (s Store[T]) Create(ctx context.Context, row *T) (*T, error) {
	if err := s.DB(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (s Store[T]) Save(ctx context.Context, row *T) (*T, error) {
	if err := s.DB(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// ByID loads one row. A missing row surfaces as gorm.ErrRecordNotFound.
func (s Store[T]) ByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var row T
	if err := s.DB(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s Store[T]) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.Table(ctx).Count(&n).Error
	return n, err
}

// SetColumn updates a single column on the row with the given id.
func (s Store[T]) SetColumn(ctx context.Context, id uuid.UUID, column string, value any) error {
	return s.Table(ctx).Where("id = ?", id).Update(column, value).Error
}
