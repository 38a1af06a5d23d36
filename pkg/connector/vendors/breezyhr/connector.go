// Package breezyhr implements the BreezyHR connector: session sign-in,
// company scoping resolved by name, a single-page position listing, and an
// email-keyed candidate upsert.
package breezyhr

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

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
	Name = "breezyhr"

	defaultBaseURL = "https://api.breezy.hr/v3"
)

// Connector implements core.Connector for BreezyHR.
type Connector struct {
	cfg    *config.Config
	client *clients.RestClient
	log    *zap.Logger

	mu        sync.Mutex
	companyID string
}

// New builds a BreezyHR connector from an instance configuration. The
// default auth strategy is the session sign-in; the resulting access token
// is applied on every request.
func New(cfg *config.Config) (core.Connector, error) {
	baseURL := cfg.Endpoint
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	sec := cfg.Security
	if sec.AuthType == "" || sec.AuthType == "api_key" {
		// Breezy authenticates with a session token, not a static key.
		sec.AuthType = "session"
	}
	creds, err := auth.FromConfig(sec, "Authorization", baseURL+"/signin")
	if err != nil {
		return nil, err
	}

	log := logger.With(zap.String("connector", Name), zap.String("instance", cfg.Name))
	client := clients.NewRestClient(baseURL, clients.RestConfigFromConnector(cfg), creds, log)

	return &Connector{cfg: cfg, client: client, log: log}, nil
}

// Name implements core.Connector.
func (c *Connector) Name() string { return Name }

// Reader implements core.Connector. Breezy exposes positions as one
// unpaginated listing, so the paginator sees a single page followed by
// termination. Company scoping is resolved before the first fetch.
func (c *Connector) Reader(ctx context.Context) (*paginate.Iterator, error) {
	companyID, err := c.resolveCompanyID(ctx)
	if err != nil {
		return nil, err
	}

	p := &paginate.Paginator{
		Vendor:  Name,
		Fetcher: &positionLister{connector: c, companyID: companyID},
	}
	return p.Records(), nil
}

// Mapper implements core.Connector.
func (c *Connector) Mapper() *mapping.JobMapper {
	return &mapping.JobMapper{Vendor: Name, Slots: jobSlots}
}

// Writer implements core.Connector. Profiles are upserted by email within
// the configured position: an existing candidate is overwritten, anything
// else is created.
func (c *Connector) Writer(ctx context.Context) (*bulk.Writer, error) {
	positionID := c.cfg.Write.JobID
	if positionID == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "write.job_id is required to push candidates")
	}

	companyID, err := c.resolveCompanyID(ctx)
	if err != nil {
		return nil, err
	}

	origin := c.cfg.Write.Origin
	if origin == "" {
		origin = "sourced"
	}
	coverLetter := c.cfg.Write.CoverLetter

	// The candidate search is company-wide; only create and update are
	// scoped to the position.
	companyBase := "/company/" + url.PathEscape(companyID)
	positionBase := fmt.Sprintf("%s/position/%s", companyBase, url.PathEscape(positionID))

	return bulk.NewWriter(bulk.Strategy{
		Vendor: Name,
		Map: func(p *models.Profile) (models.Raw, error) {
			return formatProfile(p, origin, coverLetter)
		},
		Lookup: func(ctx context.Context, p *models.Profile) (string, bool, error) {
			query := url.Values{}
			query.Set("email_address", p.Info.Email)

			var matches []models.Raw
			if err := c.client.GetJSON(ctx, companyBase+"/candidates/search", query, &matches); err != nil {
				return "", false, err
			}
			for _, m := range matches {
				email, _ := m.GetString("email_address")
				if strings.EqualFold(email, p.Info.Email) {
					id, _ := m.GetString("_id")
					return id, id != "", nil
				}
			}
			return "", false, nil
		},
		Create: func(ctx context.Context, payload models.Raw, p *models.Profile) (string, error) {
			var created struct {
				ID string `json:"_id"`
			}
			if err := c.client.PostJSON(ctx, positionBase+"/candidates", payload, &created); err != nil {
				return "", err
			}
			return created.ID, nil
		},
		Update: func(ctx context.Context, vendorID string, payload models.Raw, p *models.Profile) error {
			return c.client.PutJSON(ctx, positionBase+"/candidate/"+url.PathEscape(vendorID), payload, nil)
		},
	}), nil
}

// Close implements core.Connector.
func (c *Connector) Close() error { return c.client.Close() }

// resolveCompanyID returns the configured company id, looking it up by name
// when only a name is configured. The resolved id is cached per connector.
func (c *Connector) resolveCompanyID(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.companyID != "" {
		return c.companyID, nil
	}
	if id := c.cfg.Write.CompanyID; id != "" {
		c.companyID = id
		return id, nil
	}

	name := c.cfg.Write.CompanyName
	if name == "" {
		return "", errors.New(errors.ErrorTypeConfig, "either write.company_id or write.company_name is required")
	}

	var companies []models.Raw
	if err := c.client.GetJSON(ctx, "/companies", nil, &companies); err != nil {
		return "", err
	}

	for _, company := range companies {
		candidate, _ := company.GetString("name")
		if strings.EqualFold(candidate, name) {
			id, ok := company.GetString("_id")
			if !ok || id == "" {
				break
			}
			c.log.Info("resolved company by name",
				zap.String("company_name", name),
				zap.String("company_id", id))
			c.companyID = id
			return id, nil
		}
	}

	return "", errors.New(errors.ErrorTypeMapping, "no company matches the configured name").
		WithDetail("company_name", name)
}

// positionLister fetches the whole published-position listing in one call.
type positionLister struct {
	connector *Connector
	companyID string
}

func (l *positionLister) FetchPage(ctx context.Context, cursor models.Cursor) ([]models.Raw, models.Cursor, error) {
	query := url.Values{}
	query.Set("state", "published")

	var positions []models.Raw
	path := fmt.Sprintf("/company/%s/positions", url.PathEscape(l.companyID))
	if err := l.connector.client.GetJSON(ctx, path, query, &positions); err != nil {
		return nil, nil, err
	}

	// nil next cursor: the listing is a single page.
	return positions, nil, nil
}
