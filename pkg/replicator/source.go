package replicator

import (
	"context"
	"errors"

	"github.com/TritonDataCenter/mahi-sub003/pkg/changelog"
)

// ErrNoMoreEntries is returned by Source.Next when the changelog has been
// drained up to the directory's current changenumber; the driver polls
// again after PollInterval. Tailing the directory service itself is an
// external collaborator (spec.md §1) — Source is the seam this module
// defines for it.
var ErrNoMoreEntries = errors.New("replicator: no more changelog entries")

// Source is the changelog-tailing collaborator the outer driver pulls from,
// in strict changenumber order (spec.md §5 "Ordering guarantees").
type Source interface {
	// Seek positions the source to start returning entries after
	// changenumber (the empty string means "from the beginning").
	Seek(ctx context.Context, changenumber string) error
	// Next returns the next entry, or ErrNoMoreEntries if none are
	// currently available.
	Next(ctx context.Context) (*changelog.Entry, error)
}
