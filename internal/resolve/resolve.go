// Package resolve supplies prices the Scryfall data is missing.
package resolve

import (
	"context"
	"errors"

	"scryfallprices/internal/jsonfile"
)

var (
	// ErrAbort stops manual resolution; remaining cards stay unresolved.
	ErrAbort = errors.New("manual price entry interrupted")
	// ErrSkipped leaves a single card unresolved.
	ErrSkipped = errors.New("no price supplied")
)

// Resolver supplies a price for a card whose field value is unusable.
type Resolver interface {
	Resolve(ctx context.Context, card, field string) (float64, error)
}

// Noop leaves every card unresolved.
type Noop struct{}

func (Noop) Resolve(ctx context.Context, card, field string) (float64, error) {
	return 0, ErrSkipped
}

// Preset answers from prices known ahead of time.
type Preset map[string]float64

func (p Preset) Resolve(ctx context.Context, card, field string) (float64, error) {
	price, ok := p[card]
	if !ok {
		return 0, ErrSkipped
	}
	return price, nil
}

// LoadPreset reads a JSON object of card name to price.
func LoadPreset(path string) (Preset, error) {
	var p Preset
	if err := jsonfile.Read(path, &p); err != nil {
		return nil, err
	}
	return p, nil
}
