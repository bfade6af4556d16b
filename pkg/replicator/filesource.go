package replicator

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/TritonDataCenter/mahi-sub003/pkg/changelog"
)

// FileSource is a Source backed by a newline-delimited JSON file of
// changelog.Entry records: a concrete, minimal stand-in for the real
// LDAP-tailing collaborator spec.md §1 places out of this module's scope,
// useful for replaying an exported changelog or for integration tests. The
// Source interface keeps the real tailer pluggable without this module
// depending on it.
type FileSource struct {
	mu      sync.Mutex
	entries []*changelog.Entry
	pos     int
}

// NewFileSource reads every line of path as a JSON-encoded changelog.Entry.
func NewFileSource(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replicator: opening changelog file: %w", err)
	}
	defer f.Close()

	var entries []*changelog.Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry changelog.Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("replicator: parsing changelog line: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("replicator: reading changelog file: %w", err)
	}
	return &FileSource{entries: entries}, nil
}

// Seek implements Source by resetting to the first entry whose changenumber
// is strictly greater than changenumber, comparing both as decimal integers.
func (s *FileSource) Seek(_ context.Context, changenumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pos = 0
	if changenumber == "" {
		return nil
	}
	for s.pos < len(s.entries) {
		cn := s.entries[s.pos].ChangeNumber
		if len(cn) > len(changenumber) || (len(cn) == len(changenumber) && cn > changenumber) {
			break
		}
		s.pos++
	}
	return nil
}

// Next implements Source.
func (s *FileSource) Next(_ context.Context) (*changelog.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos >= len(s.entries) {
		return nil, ErrNoMoreEntries
	}
	e := s.entries[s.pos]
	s.pos++
	return e, nil
}
