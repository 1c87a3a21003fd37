// Package extract reduces raw multi-currency records to one price per card.
package extract

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"scryfallprices/internal/jsonfile"
	"scryfallprices/internal/prices"
	"scryfallprices/internal/resolve"
)

// Result is the outcome of extracting one currency field.
type Result struct {
	Field  string
	Prices map[string]float64
	// Errors lists cards whose field value was missing or not a number,
	// sorted by name.
	Errors []string
	// Resolved lists the error cards that were given a price by hand.
	Resolved []string
	// Aborted is set when resolution was interrupted before every error
	// card was offered to the resolver.
	Aborted bool
}

// Unresolved returns the error cards that still have no price.
func (r *Result) Unresolved() []string {
	var out []string
	for _, card := range r.Errors {
		if _, ok := r.Prices[card]; !ok {
			out = append(out, card)
		}
	}
	return out
}

// Decompose pulls field out of every record except basic lands.
func Decompose(raw map[string]prices.Record, field string) *Result {
	res := &Result{
		Field:  field,
		Prices: make(map[string]float64, len(raw)),
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if prices.IsBasicLand(name) {
			continue
		}

		record := raw[name]
		price, err := record.Price(field)
		if err != nil {
			slog.Warn("card has no usable price", "card", name, "field", field, "value", record.Describe(field))
			res.Errors = append(res.Errors, name)
			continue
		}
		res.Prices[name] = price
	}

	return res
}

// Extractor decomposes records, fills gaps through a resolver and saves the
// outcome.
type Extractor struct {
	resolver resolve.Resolver
}

// New creates an extractor. A nil resolver disables manual fallback.
func New(resolver resolve.Resolver) *Extractor {
	return &Extractor{resolver: resolver}
}

// Extract decomposes raw for field, offers each error card to the resolver
// and writes the resulting prices to path. The file is written even when
// some cards remain unresolved.
func (e *Extractor) Extract(ctx context.Context, raw map[string]prices.Record, field, path string) (*Result, error) {
	res := Decompose(raw, field)

	if e.resolver != nil {
		e.fill(ctx, res)
	}

	if err := jsonfile.Write(path, res.Prices); err != nil {
		return res, err
	}

	slog.Info("prices saved", "field", field, "path", path, "cards", len(res.Prices))
	return res, nil
}

func (e *Extractor) fill(ctx context.Context, res *Result) {
	for _, card := range res.Errors {
		price, err := e.resolver.Resolve(ctx, card, res.Field)
		switch {
		case err == nil:
			res.Prices[card] = price
			res.Resolved = append(res.Resolved, card)
		case errors.Is(err, resolve.ErrSkipped):
			slog.Debug("card left without price", "card", card, "field", res.Field)
		case errors.Is(err, resolve.ErrAbort):
			slog.Info("manual price entry interrupted", "field", res.Field)
			res.Aborted = true
			return
		default:
			slog.Error("manual price entry failed", "field", res.Field, "card", card, "error", err)
			res.Aborted = true
			return
		}
	}
}
