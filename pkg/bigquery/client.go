// Package bigquery wraps the BigQuery client for one analytics dataset.
package bigquery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"

	"github.com/totofurniture/furnistore-backend/pkg/config"
	"github.com/totofurniture/furnistore-backend/pkg/gcp"
	"github.com/totofurniture/furnistore-backend/pkg/logger"
)

const metadataTimeout = 10 * time.Second

var (
	errProjectIDRequired    = errors.New("gcp project id is required")
	errDatasetRequired      = errors.New("bigquery dataset is required")
	errTableNameRequired    = errors.New("bigquery table name is required")
	errClientNotInitialized = errors.New("bigquery client not initialized")
)

// TableSpec describes a table the caller writes to.
type TableSpec struct {
	Name   string
	Schema bigquery.Schema
	// PartitionField enables daily time partitioning when set.
	PartitionField string
}

type Client struct {
	bq      *bigquery.Client
	dataset *bigquery.Dataset
	logg    *logger.Logger
}

// NewClient connects to the configured dataset and fails if it does not exist.
func NewClient(ctx context.Context, gcpCfg config.GCPConfig, cfg config.BigQueryConfig, logg *logger.Logger) (*Client, error) {
	project, dataset := strings.TrimSpace(gcpCfg.ProjectID), strings.TrimSpace(cfg.Dataset)
	switch {
	case project == "":
		return nil, errProjectIDRequired
	case dataset == "":
		return nil, errDatasetRequired
	case strings.TrimSpace(cfg.SalesEventsTable) == "":
		return nil, errTableNameRequired
	}

	bq, err := bigquery.NewClient(ctx, project, gcp.ClientOptions(gcpCfg)...)
	if err != nil {
		return nil, fmt.Errorf("creating bigquery client: %w", err)
	}
	c := &Client{bq: bq, dataset: bq.Dataset(dataset), logg: logg}
	if err := c.Ping(ctx); err != nil {
		_ = bq.Close()
		return nil, err
	}
	c.info(ctx, "bigquery client initialized", map[string]any{"dataset": dataset, "project": project})
	return c, nil
}

// Ping checks the dataset is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.dataset == nil {
		return errClientNotInitialized
	}
	ctx, cancel := context.WithTimeout(ctx, metadataTimeout)
	defer cancel()
	_, err := c.dataset.Metadata(ctx)
	return describe("dataset", c.dataset.DatasetID, err)
}

// EnsureTable verifies spec's table exists, creating it from spec when create is set.
func (c *Client) EnsureTable(ctx context.Context, spec TableSpec, create bool) error {
	if c == nil || c.dataset == nil {
		return errClientNotInitialized
	}
	if strings.TrimSpace(spec.Name) == "" {
		return errTableNameRequired
	}
	ctx, cancel := context.WithTimeout(ctx, metadataTimeout)
	defer cancel()

	table := c.dataset.Table(spec.Name)
	_, err := table.Metadata(ctx)
	if !isNotFound(err) || !create {
		return describe("table", spec.Name, err)
	}
	if err := table.Create(ctx, tableMetadata(spec)); err != nil {
		return fmt.Errorf("creating table %q: %w", spec.Name, err)
	}
	c.info(ctx, "bigquery table created", map[string]any{"table": spec.Name})
	return nil
}

func tableMetadata(spec TableSpec) *bigquery.TableMetadata {
	meta := &bigquery.TableMetadata{Schema: spec.Schema}
	if spec.PartitionField != "" {
		meta.TimePartitioning = &bigquery.TimePartitioning{
			Type:  bigquery.DayPartitioningType,
			Field: spec.PartitionField,
		}
	}
	return meta
}

// InsertRows streams rows into a table of the dataset.
func (c *Client) InsertRows(ctx context.Context, table string, rows []any) error {
	if c == nil || c.bq == nil {
		return errClientNotInitialized
	}
	if strings.TrimSpace(table) == "" {
		return errTableNameRequired
	}
	if len(rows) == 0 {
		return nil
	}
	return c.dataset.Table(table).Inserter().Put(ctx, rows)
}

func (c *Client) Close() error {
	if c == nil || c.bq == nil {
		return nil
	}
	return c.bq.Close()
}

func (c *Client) info(ctx context.Context, msg string, fields map[string]any) {
	if c.logg != nil {
		c.logg.Info(c.logg.WithFields(ctx, fields), msg)
	}
}

func describe(kind, name string, err error) error {
	switch {
	case err == nil:
		return nil
	case isNotFound(err):
		return fmt.Errorf("%s %q does not exist", kind, name)
	default:
		return fmt.Errorf("checking %s %q: %w", kind, name, err)
	}
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}
