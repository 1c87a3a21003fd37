package resolve

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"scryfallprices/internal/prices"
)

const abortWord = "break"

// Interactive asks the operator for each missing price, opening the
// relevant market page first.
type Interactive struct {
	in      *bufio.Scanner
	out     io.Writer
	open    Opener
	markets Markets

	// lines is fed by a single reader goroutine so a blocked read never
	// outlives a cancelled Resolve.
	startOnce sync.Once
	lines     chan string
	readErr   error
}

// NewInteractive creates a resolver reading answers from in and writing
// prompts to out. open may be nil to skip opening pages.
func NewInteractive(in io.Reader, out io.Writer, open Opener, markets Markets) *Interactive {
	return &Interactive{
		in:      bufio.NewScanner(in),
		out:     out,
		open:    open,
		markets: markets,
		lines:   make(chan string),
	}
}

// Resolve prompts for one price. Typing "break" returns ErrAbort, and so
// does running out of input. Anything that is not a number returns
// ErrSkipped. A cancelled ctx ends the wait for an answer.
func (r *Interactive) Resolve(ctx context.Context, card, field string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if page, ok := r.markets.URL(card, field); ok {
		if r.open != nil {
			r.open(page)
		}
		fmt.Fprintf(r.out, "%s: %s\n", card, page)
	}
	fmt.Fprintf(r.out, "Insert %s price for %s or %s to interrupt: ", field, card, abortWord)

	line, err := r.readLine(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, ErrAbort
		}
		return 0, err
	}

	answer := strings.TrimSpace(line)
	if strings.EqualFold(answer, abortWord) {
		return 0, ErrAbort
	}

	price, err := prices.ParsePrice(answer)
	if err != nil {
		slog.Warn("invalid price entered", "card", card, "input", answer)
		fmt.Fprintf(r.out, "Not a valid price. %s will be skipped\n", card)
		return 0, fmt.Errorf("%w: %v", ErrSkipped, err)
	}

	return price, nil
}

func (r *Interactive) readLine(ctx context.Context) (string, error) {
	r.startOnce.Do(func() { go r.scan() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-r.lines:
		if !ok {
			if r.readErr != nil {
				return "", fmt.Errorf("failed to read price: %w", r.readErr)
			}
			return "", io.EOF
		}
		return line, nil
	}
}

func (r *Interactive) scan() {
	defer close(r.lines)
	for r.in.Scan() {
		r.lines <- r.in.Text()
	}
	r.readErr = r.in.Err()
}
