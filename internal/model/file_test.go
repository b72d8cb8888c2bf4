package model

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modl-ml/modl/internal/schema"
)

func TestSaveAndOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.modl")

	m := &Model{
		SchemaVersion: CurrentSchemaVersion,
		Graph: Graph{Nodes: []Node{
			{ID: "x", Data: &Value{}},
			{ID: "w", Data: &Constant{Shape: []uint32{2}, Data: FloatData{0.5, 1.5}}},
			{ID: "y", Data: &Operator{Type: schema.OpAdd, Inputs: []uint32{0, 1}}},
		}},
	}
	require.NoError(t, Save(path, m))

	f, err := OpenFile(path)
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()

	assert.True(t, f.HasIdentifier())

	// Lazy access through the mapping: read one field without decoding.
	root, err := f.Root()
	require.NoError(t, err)
	version, err := root.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, version)

	got, err := f.Decode(DecodeOptions{Strict: true})
	require.NoError(t, err)
	assert.Equal(t, m, got)

	require.NoError(t, f.Close())
	// Close is idempotent.
	require.NoError(t, f.Close())

	// Decode after close fails rather than touching unmapped memory.
	_, err = f.Decode(DecodeOptions{})
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.modl")
	m := &Model{
		SchemaVersion: CurrentSchemaVersion,
		Graph:         Graph{Nodes: []Node{{ID: "v", Data: &Value{}}}},
	}
	require.NoError(t, Save(path, m))

	got, err := Load(path, DecodeOptions{Strict: true})
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestOpenFileMissing(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "missing.modl"))
	assert.Error(t, err)
}
