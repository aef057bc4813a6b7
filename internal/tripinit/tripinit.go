// Package tripinit runs the trip creation workflow: derive the location,
// scaffold it, and hand every outcome to the reporter.
package tripinit

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tripkit-labs/tripkit/internal/logger"
	"github.com/tripkit-labs/tripkit/internal/notify"
	"github.com/tripkit-labs/tripkit/internal/scaffold"
	"github.com/tripkit-labs/tripkit/internal/trip"
)

// Options are the per-invocation inputs read from settings.
type Options struct {
	RootFolder string
	Templates  scaffold.Templates
}

// Service creates trips.
type Service struct {
	engine   *scaffold.Engine
	reporter notify.Reporter
}

// New returns a Service. reporter may be nil.
func New(engine *scaffold.Engine, reporter notify.Reporter) *Service {
	return &Service{engine: engine, reporter: reporter}
}

// Create scaffolds the trip described by req. It returns an error only when
// req is invalid, in which case the vault is never touched. Step failures
// are reported, not returned.
func (s *Service) Create(ctx context.Context, req trip.Request, opts Options) ([]scaffold.Report, error) {
	loc, err := trip.Derive(req, opts.RootFolder)
	if err != nil {
		return nil, fmt.Errorf("creating trip: %w", err)
	}

	ctx = logger.WithFields(ctx,
		zap.String("destination", req.Destination),
		zap.String("month", req.Month))
	if req.DurationDays > 0 {
		logger.Debug(ctx, "trip duration provided", zap.Int("days", req.DurationDays))
	}

	reports := s.engine.Scaffold(ctx, loc, opts.Templates)
	if s.reporter != nil {
		for _, r := range reports {
			s.reporter.Report(r)
		}
	}
	return reports, nil
}

// Failed reports whether any step failed.
func Failed(reports []scaffold.Report) bool {
	return scaffold.Summarize(reports).Failed > 0
}
