// Package pipeline composes the pull and push flows. A pull chains the
// connector's paginated reader through its mapping table into a lazy
// canonical job sequence; a push chains the mapper and bulk writer into a
// sequence of write outcomes. The pipeline itself adds no vendor logic.
package pipeline

import (
	"context"
	"io"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/yass1337/hrflow-connectors/internal/version"
	"github.com/yass1337/hrflow-connectors/pkg/connector/core"
	"github.com/yass1337/hrflow-connectors/pkg/connector/paginate"
	"github.com/yass1337/hrflow-connectors/pkg/errors"
	"github.com/yass1337/hrflow-connectors/pkg/logger"
	"github.com/yass1337/hrflow-connectors/pkg/mapping"
	"github.com/yass1337/hrflow-connectors/pkg/metrics"
	"github.com/yass1337/hrflow-connectors/pkg/models"
	"github.com/yass1337/hrflow-connectors/pkg/observability"
)

// Pipeline binds one configured connector to the pull and push flows.
type Pipeline struct {
	connector core.Connector
	log       *zap.Logger
}

// New creates a pipeline around a connector.
func New(connector core.Connector) *Pipeline {
	return &Pipeline{
		connector: connector,
		log: logger.With(
			zap.String("component", "pipeline"),
			zap.String("connector", connector.Name()),
			zap.String("version", version.Version)),
	}
}

// PullJobs starts a pull and returns a lazy stream of canonical jobs.
// Records are fetched and mapped one at a time as the stream advances;
// abandoning the stream triggers no further vendor calls.
func (p *Pipeline) PullJobs(ctx context.Context) (*JobStream, error) {
	ctx, span := observability.StartSpan(ctx, "pull_jobs")

	it, err := p.connector.Reader(ctx)
	if err != nil {
		span.RecordError(err)
		span.End()
		p.log.Error("pull setup failed", zap.Error(err))
		return nil, err
	}

	p.log.Info("pull started")
	return &JobStream{
		it:     it,
		mapper: p.connector.Mapper(),
		vendor: p.connector.Name(),
		log:    p.log,
		span:   span,
	}, nil
}

// PushProfiles maps and writes a batch of canonical profiles, returning one
// outcome per profile in input order. Item failures are isolated in the
// outcomes; the returned error is non-nil only when the batch itself
// aborted.
func (p *Pipeline) PushProfiles(ctx context.Context, profiles []*models.Profile) ([]models.WriteOutcome, error) {
	ctx, span := observability.StartSpan(ctx, "push_profiles")
	defer span.End()

	writer, err := p.connector.Writer(ctx)
	if err != nil {
		span.RecordError(err)
		p.log.Error("push setup failed", zap.Error(err))
		return nil, err
	}

	outcomes, err := writer.Write(ctx, profiles)
	if err != nil {
		span.RecordError(err)
	}

	var created, updated, failed int
	for _, o := range outcomes {
		switch o.Status {
		case models.StatusCreated:
			created++
		case models.StatusUpdated:
			updated++
		case models.StatusFailed:
			failed++
		}
	}
	p.log.Info("push finished",
		zap.Int("profiles", len(profiles)),
		zap.Int("created", created),
		zap.Int("updated", updated),
		zap.Int("failed", failed))

	return outcomes, err
}

// Close releases connector resources.
func (p *Pipeline) Close() error {
	return p.connector.Close()
}

// JobStream is a lazy, forward-only sequence of canonical jobs.
type JobStream struct {
	it     *paginate.Iterator
	mapper *mapping.JobMapper
	vendor string
	log    *zap.Logger
	span   trace.Span

	count int
	done  bool
}

// Next returns the next canonical job, io.EOF when the pull is exhausted,
// or the fatal error that terminated it. Any mapping failure aborts the
// pull.
func (s *JobStream) Next(ctx context.Context) (*models.Job, error) {
	if s.done {
		return nil, io.EOF
	}

	raw, err := s.it.Next(ctx)
	if err == io.EOF {
		s.finish(nil)
		return nil, io.EOF
	}
	if err != nil {
		s.finish(err)
		return nil, err
	}

	job, err := s.mapper.ToCanonical(raw)
	if err != nil {
		metrics.MappingFailures.WithLabelValues(s.vendor, "read").Inc()
		mapErr := errors.Wrap(err, errors.ErrorTypeMapping, "record failed canonical mapping")
		s.finish(mapErr)
		return nil, mapErr
	}

	s.count++
	return job, nil
}

// Collect drains the stream into a slice.
func (s *JobStream) Collect(ctx context.Context) ([]*models.Job, error) {
	var jobs []*models.Job
	for {
		job, err := s.Next(ctx)
		if err == io.EOF {
			return jobs, nil
		}
		if err != nil {
			return jobs, err
		}
		jobs = append(jobs, job)
	}
}

// Close ends the stream early, releasing the span even when the caller
// abandons the pull before exhaustion. Further Next calls return io.EOF.
func (s *JobStream) Close() error {
	s.finish(nil)
	return nil
}

func (s *JobStream) finish(err error) {
	if s.done {
		return
	}
	s.done = true

	if err != nil {
		s.span.RecordError(err)
		s.log.Error("pull aborted", zap.Int("jobs", s.count), zap.Error(err))
	} else {
		s.log.Info("pull finished", zap.Int("jobs", s.count))
	}
	s.span.End()
}
