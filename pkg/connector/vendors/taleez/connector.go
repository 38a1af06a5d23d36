// Package taleez implements the Taleez connector: numbered-page job
// listing with inline details, epoch-second timestamps, and a two-step
// candidate push (create, then attach to a job).
package taleez

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/yass1337/hrflow-connectors/pkg/auth"
	"github.com/yass1337/hrflow-connectors/pkg/clients"
	"github.com/yass1337/hrflow-connectors/pkg/config"
	"github.com/yass1337/hrflow-connectors/pkg/connector/bulk"
	"github.com/yass1337/hrflow-connectors/pkg/connector/core"
	"github.com/yass1337/hrflow-connectors/pkg/connector/paginate"
	"github.com/yass1337/hrflow-connectors/pkg/errors"
	"github.com/yass1337/hrflow-connectors/pkg/logger"
	"github.com/yass1337/hrflow-connectors/pkg/mapping"
	"github.com/yass1337/hrflow-connectors/pkg/models"
)

const (
	// Name is the vendor name used for registration and metrics.
	Name = "taleez"

	defaultBaseURL = "https://api.taleez.com"
	apiKeyHeader   = "X-taleez-api-secret"

	maxPageSize = 100
)

// Connector implements core.Connector for Taleez.
type Connector struct {
	cfg    *config.Config
	client *clients.RestClient
	log    *zap.Logger
}

// New builds a Taleez connector from an instance configuration.
func New(cfg *config.Config) (core.Connector, error) {
	creds, err := auth.FromConfig(cfg.Security, apiKeyHeader, "")
	if err != nil {
		return nil, err
	}

	baseURL := cfg.Endpoint
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	log := logger.With(zap.String("connector", Name), zap.String("instance", cfg.Name))
	client := clients.NewRestClient(baseURL, clients.RestConfigFromConnector(cfg), creds, log)

	return &Connector{cfg: cfg, client: client, log: log}, nil
}

// Name implements core.Connector.
func (c *Connector) Name() string { return Name }

// Reader implements core.Connector. Pages are numbered from zero and the
// listing already carries full details, so there is no per-item fetch.
func (c *Connector) Reader(ctx context.Context) (*paginate.Iterator, error) {
	p := &paginate.Paginator{
		Vendor:  Name,
		Fetcher: &jobLister{connector: c},
		Start:   models.Offset(0),
	}
	return p.Records(), nil
}

// Mapper implements core.Connector.
func (c *Connector) Mapper() *mapping.JobMapper {
	return &mapping.JobMapper{Vendor: Name, Slots: jobSlots}
}

// Writer implements core.Connector. Each profile is created as a candidate
// and then attached to the configured job; a failed attachment leaves the
// created candidate in place and is recorded on the outcome.
func (c *Connector) Writer(ctx context.Context) (*bulk.Writer, error) {
	jobID := c.cfg.Write.JobID
	if jobID == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "write.job_id is required to push candidates")
	}

	return bulk.NewWriter(bulk.Strategy{
		Vendor: Name,
		Map:    formatProfile,
		Create: func(ctx context.Context, payload models.Raw, p *models.Profile) (string, error) {
			var created struct {
				ID int64 `json:"id"`
			}
			if err := c.client.PostJSON(ctx, "/0/candidates", payload, &created); err != nil {
				return "", err
			}
			return strconv.FormatInt(created.ID, 10), nil
		},
		Associate: func(ctx context.Context, vendorID string, p *models.Profile) error {
			id, err := strconv.ParseInt(vendorID, 10, 64)
			if err != nil {
				return errors.Wrap(err, errors.ErrorTypeItemWrite, "created candidate id is not numeric")
			}
			path := fmt.Sprintf("/0/jobs/%s/candidates", url.PathEscape(jobID))
			return c.client.PostJSON(ctx, path, map[string]interface{}{
				"ids": []int64{id},
			}, nil)
		},
	}), nil
}

// Close implements core.Connector.
func (c *Connector) Close() error { return c.client.Close() }

// jobLister fetches one numbered listing page with full details inline.
type jobLister struct {
	connector *Connector
}

func (l *jobLister) FetchPage(ctx context.Context, cursor models.Cursor) ([]models.Raw, models.Cursor, error) {
	page := models.Offset(0)
	if cursor != nil {
		page = cursor.(models.Offset)
	}

	pageSize := l.connector.cfg.Read.PageSize
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(int(page)))
	query.Set("pageSize", strconv.Itoa(pageSize))
	query.Set("withDetails", "true")

	var listing struct {
		List []models.Raw `json:"list"`
	}
	if err := l.connector.client.GetJSON(ctx, "/0/jobs", query, &listing); err != nil {
		return nil, nil, err
	}

	return listing.List, page + 1, nil
}
