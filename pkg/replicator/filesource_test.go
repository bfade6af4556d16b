package replicator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSource_SeekAndNext(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "changelog.jsonl")
	content := `{"changenumber":"1","changetype":"add","objectclass":["sdcperson"],"changes":{"uuid":["acct-1"]}}
{"changenumber":"2","changetype":"add","objectclass":["sdcperson"],"changes":{"uuid":["acct-2"]}}
{"changenumber":"3","changetype":"add","objectclass":["sdcperson"],"changes":{"uuid":["acct-3"]}}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	source, err := NewFileSource(path)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, source.Seek(ctx, "1"))

	e, err := source.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2", e.ChangeNumber)

	e, err = source.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "3", e.ChangeNumber)

	_, err = source.Next(ctx)
	assert.ErrorIs(t, err, ErrNoMoreEntries)
}
