package prices

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"scryfallprices/internal/fetcher"
)

// Source looks up the raw price record for one exact card name.
type Source interface {
	Lookup(ctx context.Context, name string) (Record, error)
}

// Pacer spaces out requests to the source.
type Pacer interface {
	// Wait blocks until the next request may start.
	Wait(ctx context.Context) error
	// Pause holds off after a successful request, before the next one.
	Pause(ctx context.Context) error
}

// Report describes how a FetchAll pass ended.
type Report struct {
	Fetched      int
	Cached       int
	SkippedLands int
	// Remaining lists names that still needed fetching when the pass stopped.
	Remaining []string
	// Err is the error that stopped the pass, nil if every name was handled.
	Err error
	// Checkpointed is set when the cache was persisted after Err.
	Checkpointed bool
}

// Complete reports whether every name was fetched, cached or skipped.
func (r Report) Complete() bool {
	return r.Err == nil
}

// Repository resolves card names to raw price records, fetching from the
// source only when the cache has no entry.
type Repository struct {
	source     Source
	cache      Cache
	pacer      Pacer
	checkpoint Checkpointer

	// cooling is set after a successful lookup until the pause is served.
	cooling  bool
	progress func(name string)
}

// NewRepository creates a repository. cache defaults to an empty
// MemoryCache; pacer and checkpoint may be nil.
func NewRepository(source Source, cache Cache, pacer Pacer, checkpoint Checkpointer) *Repository {
	if cache == nil {
		cache = NewMemoryCache(nil)
	}

	return &Repository{
		source:     source,
		cache:      cache,
		pacer:      pacer,
		checkpoint: checkpoint,
	}
}

// OnProgress registers fn to be called once for every name FetchAll has
// dealt with, whether fetched, cached or skipped.
func (r *Repository) OnProgress(fn func(name string)) {
	r.progress = fn
}

// Get returns the cached record for name, fetching and storing it on a miss.
func (r *Repository) Get(ctx context.Context, name string) (Record, error) {
	if record, ok := r.cache.Get(name); ok {
		return record, nil
	}
	return r.fetch(ctx, name)
}

// Snapshot returns a copy of every record gathered so far.
func (r *Repository) Snapshot() map[string]Record {
	return r.cache.Snapshot()
}

// FetchAll fetches every name that is neither cached nor a basic land, one
// at a time. A non-success status stops the pass with the cache left as is.
// Any other failure stops the pass and checkpoints the cache. Failures are
// reported, never returned.
func (r *Repository) FetchAll(ctx context.Context, names []string) Report {
	var report Report

	for i, name := range names {
		if _, ok := r.cache.Get(name); ok {
			slog.Info("card is already in prices", "card", name)
			report.Cached++
			r.step(name)
			continue
		}
		if IsBasicLand(name) {
			report.SkippedLands++
			r.step(name)
			continue
		}

		if _, err := r.fetch(ctx, name); err != nil {
			report.Err = err
			report.Remaining = r.pending(names[i:])
			r.stop(&report, name)
			return report
		}

		slog.Debug("fetched prices", "card", name)
		report.Fetched++
		r.step(name)
	}

	return report
}

func (r *Repository) step(name string) {
	if r.progress != nil {
		r.progress(name)
	}
}

// fetch looks name up once the pacer allows it. The pause owed to the
// previous success is served first, so it counts from that lookup's end.
func (r *Repository) fetch(ctx context.Context, name string) (Record, error) {
	if r.pacer != nil {
		if r.cooling {
			if err := r.pacer.Pause(ctx); err != nil {
				return nil, fetcher.ClassifyTransportError(err)
			}
			r.cooling = false
		}
		if err := r.pacer.Wait(ctx); err != nil {
			return nil, fetcher.ClassifyTransportError(err)
		}
	}

	record, err := r.source.Lookup(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", name, err)
	}

	r.cache.Put(name, record)
	r.cooling = true
	return record, nil
}

func (r *Repository) stop(report *Report, name string) {
	var fe *fetcher.FetchError
	if fetcher.IsStatusError(report.Err) && errors.As(report.Err, &fe) {
		slog.Error("connection error, stopping",
			"card", name,
			"status_code", fe.StatusCode,
			"remaining", len(report.Remaining))
		return
	}

	slog.Error("fetch interrupted", "card", name, "error", report.Err)
	if r.checkpoint == nil {
		return
	}

	if err := r.checkpoint.Save(r.cache.Snapshot()); err != nil {
		slog.Error("failed to save recovery checkpoint", "error", err)
		return
	}
	report.Checkpointed = true
}

// pending filters names down to those a later pass would still fetch.
func (r *Repository) pending(names []string) []string {
	var out []string
	for _, name := range names {
		if _, ok := r.cache.Get(name); ok || IsBasicLand(name) {
			continue
		}
		out = append(out, name)
	}
	return out
}
