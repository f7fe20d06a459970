// Package classify resolves the semantic ids that belong to a set of element
// categories by querying a classification service once per category.
package classify

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/sectionview/pkg/ifc"
)

// ErrClassificationUnavailable is returned when any category query fails.
var ErrClassificationUnavailable = errors.New("classification unavailable")

// Service answers category queries for a loaded model.
type Service interface {
	QueryIDsOfCategory(ctx context.Context, modelID ifc.ModelID, category ifc.Category) ([]ifc.SemanticID, error)
}

// Resolver fans category queries out to a Service.
type Resolver struct {
	svc   Service
	log   *zap.Logger
	limit int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the resolver's logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) { r.log = l }
}

// WithConcurrency caps the number of in-flight queries. Zero or less means
// one goroutine per category.
func WithConcurrency(n int) Option {
	return func(r *Resolver) { r.limit = n }
}

// NewResolver creates a resolver over svc.
func NewResolver(svc Service, opts ...Option) *Resolver {
	r := &Resolver{svc: svc, log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveWireframeIDs queries every category concurrently and concatenates
// the answers in category order. Duplicates are kept. The first failure
// cancels the remaining queries and no partial result is returned.
func (r *Resolver) ResolveWireframeIDs(ctx context.Context, modelID ifc.ModelID, categories []ifc.Category) ([]ifc.SemanticID, error) {
	results := make([][]ifc.SemanticID, len(categories))

	g, gctx := errgroup.WithContext(ctx)
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}
	for i, cat := range categories {
		g.Go(func() error {
			ids, err := r.svc.QueryIDsOfCategory(gctx, modelID, cat)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrClassificationUnavailable, cat, err)
			}
			results[i] = ids
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		r.log.Warn("classification failed",
			zap.Int("model", int(modelID)),
			zap.Error(err))
		return nil, err
	}

	var n int
	for _, ids := range results {
		n += len(ids)
	}
	out := make([]ifc.SemanticID, 0, n)
	for _, ids := range results {
		out = append(out, ids...)
	}

	r.log.Debug("classification resolved",
		zap.Int("model", int(modelID)),
		zap.Int("categories", len(categories)),
		zap.Int("ids", len(out)))
	return out, nil
}

// ResolveSet is ResolveWireframeIDs with the result collected into a set.
func (r *Resolver) ResolveSet(ctx context.Context, modelID ifc.ModelID, categories []ifc.Category) (ifc.IDSet, error) {
	ids, err := r.ResolveWireframeIDs(ctx, modelID, categories)
	if err != nil {
		return nil, err
	}
	return ifc.NewIDSet(ids...), nil
}
