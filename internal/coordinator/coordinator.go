package coordinator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/jedib0t/go-pretty/v6/table"

	"scryfallprices/internal/cardlist"
	"scryfallprices/internal/extract"
	"scryfallprices/internal/prices"
)

const progressRefresh = 100 * time.Millisecond

// Field pairs a currency key with the file its prices are written to
type Field struct {
	Name   string
	Output string
}

// Summary collects what a run produced
type Summary struct {
	Cards   int
	Fetch   prices.Report
	Results []*extract.Result
	Outputs []string
}

// Coordinator fetches raw prices once and extracts every configured field
type Coordinator struct {
	repo      *prices.Repository
	extractor *extract.Extractor
	fields    []Field
	out       io.Writer

	// fetchTracker follows the most recent fetch pass.
	fetchTracker *progress.Tracker
}

// New creates a new Coordinator. Progress and the final summary are printed to out.
func New(repo *prices.Repository, extractor *extract.Extractor, fields []Field, out io.Writer) *Coordinator {
	return &Coordinator{
		repo:      repo,
		extractor: extractor,
		fields:    fields,
		out:       out,
	}
}

// Run prices the distinct names in cards:
//   - every missing record is fetched, in name order, until the first failure
//   - each field is then extracted in turn, resolving gaps one field at a time
//   - a summary table is printed once all output files are written
func (c *Coordinator) Run(ctx context.Context, cards []string) (*Summary, error) {
	if len(c.fields) == 0 {
		return nil, fmt.Errorf("no price fields configured")
	}

	names := cardlist.Dedupe(cards)
	if len(names) == 0 {
		return nil, fmt.Errorf("no cards to price")
	}
	fmt.Fprintf(c.out, "You have %d cards.\n", len(names))

	summary := &Summary{Cards: len(names)}
	summary.Fetch = c.fetch(ctx, names)
	if !summary.Fetch.Complete() {
		slog.Warn("fetch stopped early",
			"error", summary.Fetch.Err,
			"unfetched", len(summary.Fetch.Remaining),
			"checkpointed", summary.Fetch.Checkpointed)
	}

	raw := c.repo.Snapshot()
	for _, field := range c.fields {
		res, err := c.extractor.Extract(ctx, raw, field.Name, field.Output)
		if err != nil {
			return summary, fmt.Errorf("failed to extract %s prices: %w", field.Name, err)
		}
		summary.Results = append(summary.Results, res)
		summary.Outputs = append(summary.Outputs, field.Output)
	}

	c.printSummary(summary)
	return summary, nil
}

// fetch runs the repository pass behind a progress bar that advances once
// per card, cached and skipped ones included.
func (c *Coordinator) fetch(ctx context.Context, names []string) prices.Report {
	pw := progress.NewWriter()
	pw.SetOutputWriter(c.out)
	pw.SetAutoStop(true)
	pw.SetUpdateFrequency(progressRefresh)
	pw.SetMessageLength(16)
	pw.Style().Visibility.ETA = true

	tracker := &progress.Tracker{
		Message: "Fetching prices",
		Total:   int64(len(names)),
		Units:   progress.UnitsDefault,
	}
	pw.AppendTracker(tracker)
	c.fetchTracker = tracker

	c.repo.OnProgress(func(string) { tracker.Increment(1) })
	defer c.repo.OnProgress(nil)

	rendered := make(chan struct{})
	go func() {
		pw.Render()
		close(rendered)
	}()

	report := c.repo.FetchAll(ctx, names)
	if report.Complete() {
		tracker.MarkAsDone()
	} else {
		tracker.MarkAsErrored()
	}
	<-rendered

	return report
}

func (c *Coordinator) printSummary(s *Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(c.out)
	t.AppendHeader(table.Row{"Field", "Priced", "Missing", "Resolved", "Unresolved", "Output"})
	for i, res := range s.Results {
		t.AppendRow(table.Row{
			res.Field,
			len(res.Prices),
			len(res.Errors),
			len(res.Resolved),
			len(res.Unresolved()),
			s.Outputs[i],
		})
	}
	t.AppendFooter(table.Row{"Fetched", s.Fetch.Fetched, "Cached", s.Fetch.Cached, "Unfetched", len(s.Fetch.Remaining)})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
