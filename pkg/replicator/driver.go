// Package replicator implements the outer driver (spec.md §2 item 6, §4.6
// boundary): pull changelog entries in changenumber order, dispatch each
// through pkg/transform, commit the resulting batch together with the
// advanced cursor, and retry or halt per spec.md §7's error-kind policy.
package replicator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/TritonDataCenter/mahi-sub003/pkg/changelog"
	"github.com/TritonDataCenter/mahi-sub003/pkg/kv"
	"github.com/TritonDataCenter/mahi-sub003/pkg/transform"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// DefaultPollInterval is how long Run waits before re-polling Source after
// it reports ErrNoMoreEntries.
const DefaultPollInterval = 2 * time.Second

// Driver is the single-logical-writer outer loop for one changelog cursor
// (spec.md §5 "Scheduling").
type Driver struct {
	Source       Source
	Client       kv.Client
	Dispatcher   *transform.Dispatcher
	CursorKey    string
	Log          *zap.SugaredLogger
	PollInterval time.Duration

	// NewBackOff builds the retry policy for one changenumber's
	// KV-transport errors (spec.md §7 "KV-transport error"). Defaults to
	// an unbounded exponential backoff if nil.
	NewBackOff func() backoff.BackOff
}

// NewDriver builds a Driver with default polling/backoff behavior.
func NewDriver(source Source, client kv.Client, dispatcher *transform.Dispatcher, cursorKey string, log *zap.SugaredLogger) *Driver {
	return &Driver{
		Source:       source,
		Client:       client,
		Dispatcher:   dispatcher,
		CursorKey:    cursorKey,
		Log:          log,
		PollInterval: DefaultPollInterval,
	}
}

// Run positions Source at the last persisted cursor and applies entries
// until ctx is canceled or a non-retryable error halts the driver.
func (d *Driver) Run(ctx context.Context) error {
	cursor, err := d.loadCursor(ctx)
	if err != nil {
		return fmt.Errorf("replicator: loading cursor: %w", err)
	}
	if err := d.Source.Seek(ctx, cursor); err != nil {
		return fmt.Errorf("replicator: seeking to cursor %q: %w", cursor, err)
	}

	pollInterval := d.PollInterval
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		entry, err := d.Source.Next(ctx)
		if errors.Is(err, ErrNoMoreEntries) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pollInterval):
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("replicator: reading changelog: %w", err)
		}

		if err := d.applyEntry(ctx, entry); err != nil {
			return fmt.Errorf("replicator: changenumber %s: %w", entry.ChangeNumber, err)
		}
		d.Log.Infow("applied changelog entry", "changenumber", entry.ChangeNumber, "changetype", entry.ChangeType)
	}
}

func (d *Driver) loadCursor(ctx context.Context) (string, error) {
	value, ok, err := d.Client.Get(ctx, d.CursorKey)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return value, nil
}

// applyEntry dispatches and commits one entry, retrying on KV-transport
// error and halting immediately on anything else (spec.md §7).
func (d *Driver) applyEntry(ctx context.Context, entry *changelog.Entry) error {
	operation := func() error {
		b := kv.NewBatch(d.Client, d.Log)

		if err := d.Dispatcher.Dispatch(ctx, entry, b); err != nil {
			if errors.Is(err, kv.ErrTransport) {
				return err
			}
			return backoff.Permanent(err)
		}

		b.Set(d.CursorKey, entry.ChangeNumber)
		if err := b.Commit(ctx); err != nil {
			if errors.Is(err, kv.ErrTransport) {
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}

	bo := d.newBackOff()
	return backoff.Retry(operation, backoff.WithContext(bo, ctx))
}

func (d *Driver) newBackOff() backoff.BackOff {
	if d.NewBackOff != nil {
		return d.NewBackOff()
	}
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 0
	return bo
}
