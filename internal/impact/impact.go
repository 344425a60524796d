// Package impact estimates the environmental effect of items kept in use.
package impact

import (
	"context"
	"database/sql"
	"strings"

	"github.com/erazemk/ponovno/internal/model"
	"github.com/erazemk/ponovno/internal/store"
)

// DefaultWeights are the estimated kilograms saved per reused item, by
// category.
var DefaultWeights = map[string]float64{
	"clothing":    1,
	"books":       1,
	"electronics": 2,
	"furniture":   5,
	"other":       1,
}

// DefaultFallback is the weight of a category missing from the table.
const DefaultFallback = 1.0

// Aggregator computes impact metrics over active items.
type Aggregator struct {
	DB       *sql.DB
	weights  map[string]float64
	fallback float64
}

// New returns an Aggregator. Nil weights or a non-positive fallback select
// the defaults. Category names are matched case-insensitively.
func New(db *sql.DB, weights map[string]float64, fallback float64) *Aggregator {
	if weights == nil {
		weights = DefaultWeights
	}
	if fallback <= 0 {
		fallback = DefaultFallback
	}

	folded := make(map[string]float64, len(weights))
	for k, v := range weights {
		folded[strings.ToLower(k)] = v
	}
	return &Aggregator{DB: db, weights: folded, fallback: fallback}
}

// Weight returns the kilograms attributed to one item of category.
func (a *Aggregator) Weight(category string) float64 {
	if w, ok := a.weights[strings.ToLower(category)]; ok {
		return w
	}
	return a.fallback
}

// Environment recomputes the impact report on every call.
func (a *Aggregator) Environment(ctx context.Context) (*model.Impact, error) {
	counts, err := store.CountActiveByCategory(ctx, a.DB)
	if err != nil {
		return nil, err
	}

	report := &model.Impact{ByCategory: make([]model.CategoryImpact, 0, len(counts))}
	for _, c := range counts {
		kg := float64(c.Count) * a.Weight(c.Category)
		report.ObjectsReused += c.Count
		report.EstimatedKgSaved += kg
		report.ByCategory = append(report.ByCategory, model.CategoryImpact{
			Category: c.Category,
			Count:    c.Count,
			Kg:       kg,
		})
	}
	return report, nil
}
