// Package txwatch checks and polls provider transactions until they leave
// the pending state.
package txwatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Bidon15/tokenctl/internal/api"
	"github.com/Bidon15/tokenctl/internal/ui"
)

// Default polling policy: every 5s for up to 10 minutes.
const (
	DefaultInterval    = 5 * time.Second
	DefaultMaxAttempts = 120
)

var (
	// ErrBudgetExhausted is returned when the transaction is still pending
	// after the last attempt.
	ErrBudgetExhausted = errors.New("txwatch: still pending after max attempts")
	// ErrTransactionFailed is returned when the transaction reached a
	// failure status.
	ErrTransactionFailed = errors.New("txwatch: transaction failed")
)

// State is a position in the watch loop.
type State int

const (
	StatePolling State = iota
	StateSucceeded
	StateFailed
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StatePolling:
		return "polling"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Policy is the fixed-interval retry policy.
type Policy struct {
	Interval    time.Duration
	MaxAttempts int
}

// DefaultPolicy returns the 5s / 120 attempt policy.
func DefaultPolicy() Policy {
	return Policy{Interval: DefaultInterval, MaxAttempts: DefaultMaxAttempts}
}

// Fetcher retrieves a transaction by id. *api.Client implements it.
type Fetcher interface {
	GetTransaction(ctx context.Context, id string) (*api.Transaction, error)
}

// Result is the outcome of Check or Watch.
type Result struct {
	State       State
	Attempts    int
	Transaction *api.Transaction
}

// Watcher renders transaction status to out.
type Watcher struct {
	fetcher Fetcher
	policy  Policy
	out     io.Writer
	logger  *slog.Logger
	raw     bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithPolicy overrides the polling policy.
func WithPolicy(p Policy) Option {
	return func(w *Watcher) {
		w.policy = p
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithRawOutput prints every raw response body after the formatted view.
func WithRawOutput(raw bool) Option {
	return func(w *Watcher) {
		w.raw = raw
	}
}

// New creates a Watcher.
func New(fetcher Fetcher, out io.Writer, opts ...Option) *Watcher {
	w := &Watcher{
		fetcher: fetcher,
		policy:  DefaultPolicy(),
		out:     out,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.policy.MaxAttempts <= 0 {
		w.policy.MaxAttempts = DefaultMaxAttempts
	}
	if w.policy.Interval < 0 {
		w.policy.Interval = 0
	}
	return w
}

// Classify maps a provider status onto a watch state.
func Classify(status string) State {
	switch strings.ToLower(strings.TrimSpace(status)) {
	// A record without a status has not been picked up by the provider's
	// queue yet, so it is treated as pending rather than as a result.
	case "", "pending":
		return StatePolling
	case "failed", "errored", "reverted", "cancelled", "canceled":
		return StateFailed
	default:
		return StateSucceeded
	}
}

// Check fetches the transaction once and prints every present field. A 404
// is terminal here and printed with a hint.
func (w *Watcher) Check(ctx context.Context, id string) (*Result, error) {
	tx, err := w.fetcher.GetTransaction(ctx, id)
	if err != nil {
		if api.IsNotFound(err) {
			PrintNotFound(w.out, id)
		}
		return nil, err
	}

	Render(w.out, tx)
	w.printRaw(tx)
	return &Result{State: Classify(tx.Status), Attempts: 1, Transaction: tx}, nil
}

// Watch polls until the status leaves pending, the attempt budget runs out,
// or ctx is cancelled. A 404 consumes an attempt and polling continues;
// any other error ends the loop.
func (w *Watcher) Watch(ctx context.Context, id string) (*Result, error) {
	res := &Result{State: StatePolling}
	fmt.Fprintf(w.out, "%s Watching %s (every %s, up to %d attempts)\n",
		ui.Yellow("⏳"), id, w.policy.Interval, w.policy.MaxAttempts)

	for res.State == StatePolling {
		res.Attempts++
		tx, err := w.fetcher.GetTransaction(ctx, id)

		switch {
		case err != nil && api.IsNotFound(err):
			fmt.Fprintf(w.out, "[%d/%d] not found yet; the provider may still be indexing it\n",
				res.Attempts, w.policy.MaxAttempts)
		case err != nil:
			return res, err
		default:
			res.Transaction = tx
			res.State = Classify(tx.Status)
			fmt.Fprintf(w.out, "[%d/%d] status: %s\n", res.Attempts, w.policy.MaxAttempts, StatusLabel(tx.Status))
			w.printRaw(tx)
		}

		w.logger.Debug("poll",
			slog.String("id", id),
			slog.Int("attempt", res.Attempts),
			slog.String("state", res.State.String()),
		)

		if res.State != StatePolling {
			break
		}
		if res.Attempts >= w.policy.MaxAttempts {
			res.State = StateExhausted
			break
		}
		if err := sleep(ctx, w.policy.Interval); err != nil {
			return res, err
		}
	}

	if res.Transaction != nil {
		fmt.Fprintln(w.out)
		Render(w.out, res.Transaction)
	}

	switch res.State {
	case StateFailed:
		return res, ErrTransactionFailed
	case StateExhausted:
		return res, fmt.Errorf("%w (%d)", ErrBudgetExhausted, res.Attempts)
	default:
		return res, nil
	}
}

// PrintNotFound prints the single-check 404 message with the --watch hint.
func PrintNotFound(out io.Writer, id string) {
	fmt.Fprintf(out, "%s Transaction %s not found\n", ui.Red("✗"), id)
	fmt.Fprintln(out, "💡 It may not be indexed yet. Re-run with --watch to keep polling.")
}

func (w *Watcher) printRaw(tx *api.Transaction) {
	if !w.raw || len(tx.Raw) == 0 {
		return
	}
	fmt.Fprintf(w.out, "%s\n%s\n", ui.Bold("Raw response:"), tx.Raw)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
