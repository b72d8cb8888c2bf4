package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modl-ml/modl/internal/flat"
	"github.com/modl-ml/modl/internal/schema"
)

func encodeValid(t *testing.T) []byte {
	t.Helper()
	buf, err := Encode(&Model{
		SchemaVersion: CurrentSchemaVersion,
		Graph:         Graph{Nodes: []Node{{ID: "v", Data: &Value{}}}},
	})
	require.NoError(t, err)
	return buf
}

func TestStrictRequiresIdentifier(t *testing.T) {
	// Same model finished without an identifier, as an older writer would.
	b := flat.NewBuilder(128)
	n := schema.WriteNode(b, "v", schema.NodeKindValue, schema.WriteValueNode(b))
	g := schema.WriteGraph(b, []uint32{n})
	b.Finish(schema.WriteModel(b, CurrentSchemaVersion, g), "")
	buf := b.FinishedBytes()

	// Lenient decoding accepts it.
	m, err := Decode(buf)
	require.NoError(t, err)
	assert.Len(t, m.Graph.Nodes, 1)

	// Strict decoding does not.
	_, err = DecodeWithOptions(buf, DecodeOptions{Strict: true})
	assert.ErrorIs(t, err, ErrMissingIdentifier)
}

func TestStrictRejectsNewerVersion(t *testing.T) {
	b := flat.NewBuilder(128)
	g := schema.WriteGraph(b, nil)
	b.Finish(schema.WriteModel(b, CurrentSchemaVersion+5, g), schema.Identifier)
	buf := b.FinishedBytes()

	// A recognized-but-newer version is not an error by itself.
	m, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion+5, m.SchemaVersion)

	_, err = DecodeWithOptions(buf, DecodeOptions{Strict: true})
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestStrictRunsValidation(t *testing.T) {
	// Out-of-range operator input: lenient decode passes, strict fails.
	buf, err := Encode(&Model{
		SchemaVersion: CurrentSchemaVersion,
		Graph: Graph{Nodes: []Node{
			{ID: "y", Data: &Operator{Type: schema.OpRelu, Inputs: []uint32{7}}},
		}},
	})
	require.NoError(t, err)

	_, err = Decode(buf)
	require.NoError(t, err)

	_, err = DecodeWithOptions(buf, DecodeOptions{Strict: true})
	assert.ErrorIs(t, err, ErrInputOutOfRange)
}

func TestStrictAcceptsValidBuffer(t *testing.T) {
	m, err := DecodeWithOptions(encodeValid(t), DecodeOptions{Strict: true})
	require.NoError(t, err)
	assert.Len(t, m.Graph.Nodes, 1)
}

func TestDecodeCorruptUnionTag(t *testing.T) {
	b := flat.NewBuilder(256)
	n := schema.WriteNode(b, "bad", schema.NodeKind(9), schema.WriteValueNode(b))
	g := schema.WriteGraph(b, []uint32{n})
	b.Finish(schema.WriteModel(b, 1, g), schema.Identifier)

	_, err := Decode(b.FinishedBytes())
	require.Error(t, err)
	assert.ErrorIs(t, err, flat.ErrBadUnionTag)
}

func TestDecodeTagWithoutPayload(t *testing.T) {
	// A non-NONE kind tag promising a payload that is not there is corrupt,
	// not "absent with defaults."
	b := flat.NewBuilder(256)
	n := schema.WriteNode(b, "bad", schema.NodeKindOperator, 0)
	g := schema.WriteGraph(b, []uint32{n})
	b.Finish(schema.WriteModel(b, 1, g), schema.Identifier)

	_, err := Decode(b.FinishedBytes())
	require.Error(t, err)
	assert.ErrorIs(t, err, flat.ErrBadUnionTag)
}

func TestDecodeTruncatedBuffer(t *testing.T) {
	buf := encodeValid(t)
	for _, cut := range []int{0, 3, len(buf) / 2} {
		_, err := Decode(buf[:cut])
		assert.Error(t, err, "cut=%d", cut)
	}
}

func TestDecodeNoGraph(t *testing.T) {
	b := flat.NewBuilder(64)
	b.Finish(schema.WriteModel(b, 1, 0), schema.Identifier)

	m, err := Decode(b.FinishedBytes())
	require.NoError(t, err)
	assert.Empty(t, m.Graph.Nodes)
}
