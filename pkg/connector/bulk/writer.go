// Package bulk implements the per-item write loop used by push flows:
// map, optional lookup, create or update, optional association. Item
// failures are isolated; a lookup transport failure aborts the whole batch.
package bulk

import (
	"context"

	"go.uber.org/zap"

	"github.com/yass1337/hrflow-connectors/pkg/errors"
	"github.com/yass1337/hrflow-connectors/pkg/logger"
	"github.com/yass1337/hrflow-connectors/pkg/metrics"
	"github.com/yass1337/hrflow-connectors/pkg/models"
)

// Strategy supplies the vendor-specific steps of the write loop. Map and
// Create are mandatory; Lookup, Update and Associate are optional.
type Strategy struct {
	// Vendor names the connector for logs and metrics.
	Vendor string

	// Map turns a canonical profile into the vendor write payload.
	Map func(p *models.Profile) (models.Raw, error)

	// Lookup finds an existing vendor record for the profile, keyed by
	// email within the configured scope. A transport failure here aborts
	// the batch. Nil disables upsert: every profile is created.
	Lookup func(ctx context.Context, p *models.Profile) (vendorID string, found bool, err error)

	// Create writes a new vendor record and returns its vendor id.
	Create func(ctx context.Context, payload models.Raw, p *models.Profile) (vendorID string, err error)

	// Update overwrites the existing vendor record. Required when Lookup
	// is set.
	Update func(ctx context.Context, vendorID string, payload models.Raw, p *models.Profile) error

	// Associate links a created record to the configured scope, such as
	// attaching a candidate to a job. A failure is recorded on the
	// outcome but does not undo the create.
	Associate func(ctx context.Context, vendorID string, p *models.Profile) error
}

// Writer runs the write loop over batches of canonical profiles.
type Writer struct {
	strategy Strategy
	log      *zap.Logger
}

// NewWriter builds a writer from a vendor strategy.
func NewWriter(strategy Strategy) *Writer {
	return &Writer{
		strategy: strategy,
		log: logger.With(
			zap.String("component", "bulk_writer"),
			zap.String("vendor", strategy.Vendor)),
	}
}

// Write pushes each profile through the vendor strategy and returns one
// outcome per profile, in input order. Mapping and write failures are
// isolated to their item. The returned error is non-nil only for batch-fatal
// conditions: a lookup transport failure or a canceled context. No retries
// happen at this layer.
func (w *Writer) Write(ctx context.Context, profiles []*models.Profile) ([]models.WriteOutcome, error) {
	outcomes := make([]models.WriteOutcome, 0, len(profiles))

	for _, p := range profiles {
		if err := ctx.Err(); err != nil {
			return outcomes, errors.Wrap(err, errors.ErrorTypeTimeout, "push aborted")
		}

		outcome, err := w.writeOne(ctx, p)
		if err != nil {
			// Batch-fatal: lookup transport failure.
			return outcomes, err
		}

		metrics.WriteOutcomes.WithLabelValues(w.strategy.Vendor, string(outcome.Status)).Inc()
		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}

func (w *Writer) writeOne(ctx context.Context, p *models.Profile) (models.WriteOutcome, error) {
	outcome := models.WriteOutcome{Reference: p.Reference}

	payload, err := w.strategy.Map(p)
	if err != nil {
		metrics.MappingFailures.WithLabelValues(w.strategy.Vendor, "write").Inc()
		w.log.Warn("profile failed mapping",
			zap.String("reference", p.Reference),
			zap.Error(err))
		outcome.Status = models.StatusFailed
		outcome.Reason = err
		return outcome, nil
	}

	if w.strategy.Lookup != nil {
		vendorID, found, err := w.strategy.Lookup(ctx, p)
		if err != nil {
			w.log.Error("lookup failed, aborting batch",
				zap.String("reference", p.Reference),
				zap.Error(err))
			return outcome, errors.Wrap(err, errors.ErrorTypeItemWrite, "existence lookup failed").
				WithDetail("reference", p.Reference)
		}
		if found {
			if err := w.strategy.Update(ctx, vendorID, payload, p); err != nil {
				w.log.Warn("update rejected",
					zap.String("reference", p.Reference),
					zap.String("vendor_id", vendorID),
					zap.Error(err))
				outcome.Status = models.StatusFailed
				outcome.Reason = err
				return outcome, nil
			}
			outcome.Status = models.StatusUpdated
			outcome.VendorID = vendorID
			return outcome, nil
		}
	}

	vendorID, err := w.strategy.Create(ctx, payload, p)
	if err != nil {
		w.log.Warn("create rejected",
			zap.String("reference", p.Reference),
			zap.Error(err))
		outcome.Status = models.StatusFailed
		outcome.Reason = err
		return outcome, nil
	}

	outcome.Status = models.StatusCreated
	outcome.VendorID = vendorID

	if w.strategy.Associate != nil {
		if err := w.strategy.Associate(ctx, vendorID, p); err != nil {
			w.log.Warn("association failed after create",
				zap.String("reference", p.Reference),
				zap.String("vendor_id", vendorID),
				zap.Error(err))
			outcome.AssociationFailed = true
		}
	}

	return outcome, nil
}
