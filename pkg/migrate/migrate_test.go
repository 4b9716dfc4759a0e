package migrate

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/totofurniture/furnistore-backend/pkg/config"
	"github.com/totofurniture/furnistore-backend/pkg/db"
	"github.com/totofurniture/furnistore-backend/pkg/enums"
	"github.com/totofurniture/furnistore-backend/pkg/logger"
)

func TestShippedMigrationsAreValid(t *testing.T) {
	count, err := ValidateDir("migrations")
	require.NoError(t, err)
	require.Equal(t, 7, count)

	embedded, err := ValidateFS(Shipped())
	require.NoError(t, err)
	require.Equal(t, count, embedded)
}

func TestSchemaMigrationsContainConstraints(t *testing.T) {
	checks := map[string][]string{
		"*_create_furniture.sql": {
			"CREATE TABLE IF NOT EXISTS furniture",
			"REFERENCES suppliers(id) ON DELETE SET NULL",
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_furniture_slug",
			"DROP TABLE IF EXISTS furniture",
		},
		"*_create_orders.sql": {
			"REFERENCES customers(id) ON DELETE CASCADE",
			"REFERENCES orders(id) ON DELETE CASCADE",
			"REFERENCES furniture(id) ON DELETE RESTRICT",
			"DROP TABLE IF EXISTS order_items",
		},
		"*_create_outbox.sql": {
			"WHERE published_at IS NULL",
			"event_id uuid NOT NULL UNIQUE",
			"DROP TABLE IF EXISTS outbox_events",
		},
		"*_create_ledger_events.sql": {
			"REFERENCES orders(id) ON DELETE CASCADE",
			"DROP TABLE IF EXISTS ledger_events",
		},
		"*_create_suppliers.sql": {
			"bulk_order_discount_rate < 1",
			"DROP TABLE IF EXISTS suppliers",
		},
	}
	for pattern, wants := range checks {
		matches, err := filepath.Glob(filepath.Join("migrations", pattern))
		require.NoError(t, err)
		require.Len(t, matches, 1, pattern)

		data, err := os.ReadFile(matches[0])
		require.NoError(t, err)
		for _, want := range wants {
			if !strings.Contains(string(data), want) {
				t.Errorf("%s: missing expected statement %q", matches[0], want)
			}
		}
	}
}

func TestShippedEnumChecksAcceptEveryValue(t *testing.T) {
	cases := []struct {
		file   string
		column string
		values []string
	}{
		{"*_create_furniture.sql", "kind", stringsOf(enums.FurnitureKinds())},
		{"*_create_ledger_events.sql", "type", []string{
			string(enums.LedgerEventPayment),
			string(enums.LedgerEventSettlement),
			string(enums.LedgerEventStatusUpdate),
			string(enums.LedgerEventInstallmentsPlan),
		}},
		{"*_create_outbox.sql", "aggregate_type", []string{
			string(enums.AggregateOrder),
			string(enums.AggregateCustomer),
		}},
		{"*_create_outbox.sql", "error_reason", []string{
			string(enums.OutboxDLQReasonMaxAttempts),
			string(enums.OutboxDLQReasonNonRetryable),
		}},
	}

	cfg := config.DBConfig{SQLitePath: filepath.Join(t.TempDir(), "checks.db")}
	logg := logger.New(logger.Options{ServiceName: "migrate-test", Output: io.Discard})
	client, err := db.New(context.Background(), cfg, true, logg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	conn := client.DB()

	for i, tc := range cases {
		matches, err := filepath.Glob(filepath.Join("migrations", tc.file))
		require.NoError(t, err)
		require.Len(t, matches, 1, tc.file)
		data, err := os.ReadFile(matches[0])
		require.NoError(t, err)

		check := regexp.MustCompile(`CHECK \(` + tc.column + ` IN \([^)]*\)\)`).FindString(string(data))
		if check == "" {
			t.Fatalf("%s: no CHECK on %s", matches[0], tc.column)
		}

		table := fmt.Sprintf("check_%d", i)
		require.NoError(t, conn.Exec(fmt.Sprintf("CREATE TABLE %s (%s text NOT NULL, %s)", table, tc.column, check)).Error)
		for _, value := range tc.values {
			if err := conn.Exec(fmt.Sprintf("INSERT INTO %s (%s) VALUES (?)", table, tc.column), value).Error; err != nil {
				t.Fatalf("%s: %s %q rejected by %s: %v", matches[0], tc.column, value, check, err)
			}
		}
		require.Error(t, conn.Exec(fmt.Sprintf("INSERT INTO %s (%s) VALUES (?)", table, tc.column), "unknown").Error)
	}
}

func stringsOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	stamp := time.Date(2026, 10, 1, 8, 30, 0, 0, time.UTC)

	path, err := CreateSQLMigration(dir, "Add Delivery Zones!", stamp)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "20261001083000_add_delivery_zones.sql"), path)

	count, err := ValidateDir(dir)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	_, err = CreateSQLMigration(dir, "Add Delivery Zones!", stamp)
	require.Error(t, err)

	_, err = CreateSQLMigration(dir, "!!!", stamp)
	require.Error(t, err)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(body), "-- rollback add_delivery_zones")
}

func TestNewRunnerRequiresDB(t *testing.T) {
	_, err := NewRunner(nil, Shipped())
	require.Error(t, err)
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_bad.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	_, err := ValidateDir(dir)
	require.Error(t, err)

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260101000000_missing_down.sql"), []byte("-- +goose Up\nSELECT 1;\n"), 0o644))
	_, err = ValidateDir(dir)
	require.ErrorContains(t, err, "goose Down")
}

func TestMaybeRunDevAutoMigratesSQLite(t *testing.T) {
	cfg := &config.Config{
		App: config.AppConfig{Env: "prod"},
		DB:  config.DBConfig{SQLitePath: filepath.Join(t.TempDir(), "store.db")},
	}
	logg := logger.New(logger.Options{ServiceName: "migrate-test", Output: io.Discard})
	client, err := db.New(context.Background(), cfg.DB, true, logg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, MaybeRunDev(context.Background(), cfg, logg, client))
	for _, table := range []string{"suppliers", "furniture", "beds", "misc_attributes", "customers", "orders", "order_items"} {
		require.True(t, client.DB().Migrator().HasTable(table), table)
	}
}
