// Package resolver selects repositories for module coordinates.
//
// A [Strategy] resolves one coordinate to a destination file. [Repository]
// is the strategy for a single Maven-layout HTTP repository; [Chain] tries
// several strategies in order and moves on only when the current one reports
// that the module does not exist there.
package resolver

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/modresolve/pkg/errors"
	"github.com/matzehuels/modresolve/pkg/maven"
)

// Strategy resolves a coordinate and downloads it to dest.
//
// Implementations return a non-nil error only for input errors detected
// before any network activity (see [errors.IsInputError]); everything else
// is an outcome.
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, coordinate, dest string) (maven.Outcome, error)
}

// Repository resolves coordinates against one repository location.
type Repository struct {
	name    string
	loc     maven.RepositoryLocation
	fetcher *maven.Fetcher
}

// NewRepository creates a strategy for loc. An empty name defaults to
// loc.String().
func NewRepository(name string, loc maven.RepositoryLocation, f *maven.Fetcher) *Repository {
	if name == "" {
		name = loc.String()
	}
	return &Repository{name: name, loc: loc, fetcher: f}
}

// Name returns the repository name.
func (r *Repository) Name() string { return r.name }

// Location returns the repository location.
func (r *Repository) Location() maven.RepositoryLocation { return r.loc }

// Resolve fetches coordinate from the repository.
func (r *Repository) Resolve(ctx context.Context, coordinate, dest string) (maven.Outcome, error) {
	return r.fetcher.Fetch(ctx, coordinate, r.loc, dest)
}

// Chain tries strategies in order.
//
// A NotFound outcome moves on to the next strategy. Any other outcome,
// including TransportFailed, is final: a repository that could not be checked
// is not evidence that the module is missing, and falling through could pick
// up a different build from a lower-priority repository.
type Chain struct {
	strategies []Strategy
	logger     *log.Logger
}

// NewChain creates a chain over strategies. A nil logger uses log.Default().
func NewChain(logger *log.Logger, strategies ...Strategy) *Chain {
	if logger == nil {
		logger = log.Default()
	}
	return &Chain{strategies: strategies, logger: logger}
}

// Len returns the number of strategies in the chain.
func (c *Chain) Len() int { return len(c.strategies) }

// Resolve walks the chain until a strategy produces a result other than
// NotFound. When every strategy reports NotFound, the last NotFound outcome is
// returned.
//
// Besides the input errors of its strategies, Resolve returns a CANCELLED
// error when ctx ends the walk between strategies. Its cause is ctx.Err(), so
// errors.Is(err, context.Canceled) holds for an interrupted walk.
func (c *Chain) Resolve(ctx context.Context, coordinate, dest string) (maven.Outcome, error) {
	if len(c.strategies) == 0 {
		return maven.Outcome{}, errors.New(errors.ErrCodeInvalidConfig, "no repositories configured")
	}

	var last maven.Outcome
	for i, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return maven.Outcome{}, errors.Wrap(errors.ErrCodeCancelled, err,
				"resolution of %s stopped before %s", coordinate, s.Name())
		}

		c.logger.Debug("trying repository", "repository", s.Name(), "position", i+1, "of", len(c.strategies))
		out, err := s.Resolve(ctx, coordinate, dest)
		if err != nil {
			return maven.Outcome{}, err
		}
		if out.Kind != maven.NotFound {
			return out, nil
		}
		last = out
	}
	return last, nil
}
