// Package smartrecruiters implements the SmartRecruiters connector: a
// pageId-cursor job listing with per-job detail fetches, and candidate
// pushes scoped to one job posting.
package smartrecruiters

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
	Name = "smartrecruiters"

	defaultBaseURL = "https://api.smartrecruiters.com"
	apiKeyHeader   = "X-SmartToken"

	// maxPageSize is the listing limit the API accepts. Larger configured
	// page sizes are clamped, never rejected.
	maxPageSize = 100
)

// Connector implements core.Connector for SmartRecruiters.
type Connector struct {
	cfg    *config.Config
	client *clients.RestClient
	log    *zap.Logger
}

// New builds a SmartRecruiters connector from an instance configuration.
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

// Reader implements core.Connector. The listing walks pageId cursors until
// the API returns an empty page; every listed job is then re-fetched for its
// full posting, and any detail failure aborts the pull.
func (c *Connector) Reader(ctx context.Context) (*paginate.Iterator, error) {
	p := &paginate.Paginator{
		Vendor:  Name,
		Fetcher: &jobLister{connector: c},
		Detail:  &jobDetail{connector: c},
	}
	return p.Records(), nil
}

// Mapper implements core.Connector.
func (c *Connector) Mapper() *mapping.JobMapper {
	return &mapping.JobMapper{Vendor: Name, Slots: jobSlots}
}

// Writer implements core.Connector. Pushes create candidates under the
// configured job posting; SmartRecruiters has no upsert, every profile
// becomes a new candidate.
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
				ID string `json:"id"`
			}
			path := fmt.Sprintf("/jobs/%s/candidates", url.PathEscape(jobID))
			if err := c.client.PostJSON(ctx, path, payload, &created); err != nil {
				return "", err
			}
			return created.ID, nil
		},
	}), nil
}

// Close implements core.Connector.
func (c *Connector) Close() error { return c.client.Close() }

// jobLister fetches one listing page of reduced job records.
type jobLister struct {
	connector *Connector
}

func (l *jobLister) FetchPage(ctx context.Context, cursor models.Cursor) ([]models.Raw, models.Cursor, error) {
	cfg := l.connector.cfg

	limit := cfg.Read.PageSize
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	for filter, param := range map[string]string{
		"q":              "q",
		"updated_after":  "updatedAfter",
		"posting_status": "postingStatus",
		"status":         "status",
	} {
		if v := cfg.Read.Filters[filter]; v != "" {
			query.Set(param, v)
		}
	}
	if cursor != nil {
		query.Set("pageId", string(cursor.(models.PageID)))
	}

	var page struct {
		NextPageID string       `json:"nextPageId"`
		Content    []models.Raw `json:"content"`
	}
	if err := l.connector.client.GetJSON(ctx, "/jobs", query, &page); err != nil {
		return nil, nil, err
	}

	if page.NextPageID == "" {
		return page.Content, nil, nil
	}
	return page.Content, models.PageID(page.NextPageID), nil
}

// jobDetail re-fetches each listed job for the full posting body.
type jobDetail struct {
	connector *Connector
}

func (d *jobDetail) FetchDetail(ctx context.Context, item models.Raw) (models.Raw, error) {
	id, ok := item.GetString("id")
	if !ok || id == "" {
		return nil, errors.New(errors.ErrorTypePull, "listed job carries no id")
	}

	var full models.Raw
	if err := d.connector.client.GetJSON(ctx, "/jobs/"+url.PathEscape(id), nil, &full); err != nil {
		return nil, err
	}
	return full, nil
}
