// Package core defines the contract every vendor connector implements.
// A connector binds three pieces: a paginated reader over raw vendor jobs,
// a mapping table into the canonical model, and a bulk write strategy for
// pushing canonical profiles back to the vendor.
package core

import (
	"context"

	"github.com/yass1337/hrflow-connectors/pkg/config"
	"github.com/yass1337/hrflow-connectors/pkg/connector/bulk"
	"github.com/yass1337/hrflow-connectors/pkg/connector/paginate"
	"github.com/yass1337/hrflow-connectors/pkg/mapping"
)

// Connector is one vendor integration, configured for a single instance.
type Connector interface {
	// Name returns the vendor name (smartrecruiters, taleez, breezyhr).
	Name() string

	// Reader returns a lazy iterator over the vendor's raw job records.
	// Construction may perform setup calls, such as resolving a company
	// id, and fails with a pull error when setup cannot complete.
	Reader(ctx context.Context) (*paginate.Iterator, error)

	// Mapper returns the read-side slot table turning raw jobs into
	// canonical jobs.
	Mapper() *mapping.JobMapper

	// Writer returns the push strategy scoped by the instance
	// configuration. Construction fails when the configured scope cannot
	// be resolved.
	Writer(ctx context.Context) (*bulk.Writer, error)

	// Close releases transport resources.
	Close() error
}

// Factory builds a connector from an instance configuration.
type Factory func(cfg *config.Config) (Connector, error)
