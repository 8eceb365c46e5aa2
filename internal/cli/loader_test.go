package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fieldcalc/internal/ir"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const intervalSchema = `
entity: "interval"
fields: {
	depth_from: {type: "number"}
	depth_to: {type: "number"}
	thickness: {
		type:    "number"
		formula: "depth_to - depth_from"
		outputs: [
			{formula: "depth_to - depth_from", target: "NUMBER"},
			{formula: "depth_to - depth_from", target: "TEXT"},
		]
	}
}
`

func TestLoadSchema(t *testing.T) {
	path := writeFile(t, "interval.cue", intervalSchema)

	schema, err := LoadSchema(path)
	require.NoError(t, err)
	assert.Equal(t, "interval", schema.Entity)
	require.Len(t, schema.Fields, 3)

	calculated := schema.CalculatedFields()
	require.Len(t, calculated, 1)
	assert.Equal(t, "depth_to - depth_from", calculated["thickness"])

	var thickness FieldDef
	for _, f := range schema.Fields {
		if f.Name == "thickness" {
			thickness = f
		}
	}
	require.Len(t, thickness.Outputs, 2)
	assert.Equal(t, ir.TargetNumber, thickness.Outputs[0].Target)
	assert.Equal(t, ir.TargetText, thickness.Outputs[1].Target)
}

func TestLoadSchema_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSchema(filepath.Join(t.TempDir(), "nope.cue"))
		assert.Error(t, err)
	})

	t.Run("invalid CUE", func(t *testing.T) {
		path := writeFile(t, "bad.cue", `entity: "x" fields: {`)
		_, err := LoadSchema(path)
		assert.Error(t, err)
	})

	t.Run("no entity", func(t *testing.T) {
		path := writeFile(t, "bad.cue", `fields: {a: {type: "number"}}`)
		_, err := LoadSchema(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "entity")
	})

	t.Run("bad target", func(t *testing.T) {
		path := writeFile(t, "bad.cue", `
entity: "x"
fields: {a: {formula: "1", outputs: [{formula: "1", target: "DATE"}]}}
`)
		_, err := LoadSchema(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "target type")
	})
}

func TestLoadSnapshot(t *testing.T) {
	path := writeFile(t, "snap.yaml", `
depth_from: 5.0
depth_to: 10
hole_id: "BH-001"
cased: true
remark: null
`)
	snap, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, ir.Number(5), snap["depth_from"])
	assert.Equal(t, ir.Number(10), snap["depth_to"])
	assert.Equal(t, ir.Text("BH-001"), snap["hole_id"])
	assert.Equal(t, ir.Bool(true), snap["cased"])
	assert.Equal(t, ir.Null{}, snap["remark"])
}

func TestLoadSnapshot_RejectsNesting(t *testing.T) {
	path := writeFile(t, "snap.yaml", "a:\n  b: 1\n")
	_, err := LoadSnapshot(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flat")
}
