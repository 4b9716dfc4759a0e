// Package pagination implements keyset paging over (created_at, id), newest first.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/totofurniture/furnistore-backend/pkg/errors"
)

const (
	DefaultLimit = 25
	MaxLimit     = 100
)

// Params carries the page request parsed from the query string.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor points at the last row of the previous page.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// Size clamps Limit into [1, MaxLimit], falling back to DefaultLimit.
func (p Params) Size() int {
	switch {
	case p.Limit <= 0:
		return DefaultLimit
	case p.Limit > MaxLimit:
		return MaxLimit
	default:
		return p.Limit
	}
}

// Fetch is the row count to query: one extra row reveals whether a next page exists.
func (p Params) Fetch() int { return p.Size() + 1 }

// Decode parses the request cursor. An empty cursor yields nil.
func (p Params) Decode() (*Cursor, error) {
	c, err := ParseCursor(p.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	return c, nil
}

// NormalizeLimit is Params{Limit: limit}.Size().
func NormalizeLimit(limit int) int { return Params{Limit: limit}.Size() }

// EncodeCursor renders the cursor as url-safe base64 of "<unix nanos>~<id>".
func EncodeCursor(c Cursor) string {
	raw := strconv.FormatInt(c.CreatedAt.UnixNano(), 10) + "~" + c.ID.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// ParseCursor reverses EncodeCursor.
func ParseCursor(value string) (*Cursor, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	nanos, id, ok := strings.Cut(string(raw), "~")
	if !ok {
		return nil, fmt.Errorf("cursor %q: missing separator", value)
	}
	n, err := strconv.ParseInt(nanos, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cursor timestamp: %w", err)
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("cursor id: %w", err)
	}
	return &Cursor{CreatedAt: time.Unix(0, n).UTC(), ID: uid}, nil
}

// After scopes a query on table to rows strictly older than c, ordered newest first.
func After(table string, c *Cursor) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if c != nil {
			db = db.Where(
				fmt.Sprintf("(%[1]s.created_at < ?) OR (%[1]s.created_at = ? AND %[1]s.id < ?)", table),
				c.CreatedAt, c.CreatedAt, c.ID,
			)
		}
		return db.Order(table + ".created_at DESC").Order(table + ".id DESC")
	}
}

// Trim cuts rows fetched with Params.Fetch down to size and returns the next cursor,
// or "" on the last page.
func Trim[T any](rows []T, size int, key func(T) Cursor) ([]T, string) {
	if len(rows) <= size {
		return rows, ""
	}
	return rows[:size], EncodeCursor(key(rows[size-1]))
}
