package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fieldcalc/internal/formula"
)

func parseAll(t *testing.T, fields map[string]string) map[string]formula.Node {
	t.Helper()
	asts := make(map[string]formula.Node, len(fields))
	for id, text := range fields {
		asts[id] = formula.MustParse(text)
	}
	return asts
}

func TestOrder_SimpleChain(t *testing.T) {
	asts := parseAll(t, map[string]string{
		"total":    "subtotal + tax",
		"tax":      "subtotal * 0.2",
		"subtotal": "price * quantity",
	})
	order, err := Build(asts).Order()
	require.NoError(t, err)
	assert.Equal(t, []string{"subtotal", "tax", "total"}, order)
}

func TestOrder_IgnoresNonCalculatedReferences(t *testing.T) {
	// price and quantity are snapshot fields, not calculated; they
	// impose no ordering constraint.
	asts := parseAll(t, map[string]string{
		"subtotal": "price * quantity",
	})
	g := Build(asts)
	assert.Empty(t, g.Dependencies("subtotal"))

	order, err := g.Order()
	require.NoError(t, err)
	assert.Equal(t, []string{"subtotal"}, order)
}

func TestOrder_LexicalTieBreak(t *testing.T) {
	// No edges at all: order falls back to ascending field id.
	asts := parseAll(t, map[string]string{
		"zeta":  "1",
		"alpha": "2",
		"mid":   "3",
	})
	order, err := Build(asts).Order()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, order)
}

func TestOrder_Deterministic(t *testing.T) {
	fields := map[string]string{
		"a": "b + c",
		"b": "x",
		"c": "x",
		"d": "a + b",
		"e": "1",
	}
	first, err := Build(parseAll(t, fields)).Order()
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		again, err := Build(parseAll(t, fields)).Order()
		require.NoError(t, err)
		assert.Equal(t, first, again, "order must be identical across runs")
	}
	// Dependencies first, ties by ascending id.
	assert.Equal(t, []string{"b", "c", "a", "d", "e"}, first)
}

func TestOrder_EveryFieldAfterItsDependencies(t *testing.T) {
	asts := parseAll(t, map[string]string{
		"w": "x + y",
		"x": "z",
		"y": "z",
		"z": "base",
	})
	order, err := Build(asts).Order()
	require.NoError(t, err)
	require.Len(t, order, 4)

	position := make(map[string]int, len(order))
	for i, id := range order {
		position[id] = i
	}
	g := Build(asts)
	for _, id := range order {
		for _, dep := range g.Dependencies(id) {
			assert.Less(t, position[dep], position[id], "%s must follow %s", id, dep)
		}
	}
}

func TestOrder_DirectCycle(t *testing.T) {
	asts := parseAll(t, map[string]string{
		"A": "B + 1",
		"B": "A + 1",
	})
	_, err := Build(asts).Order()
	require.Error(t, err)
	require.True(t, IsCycleError(err))

	var ce *CycleError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Cycle, "A")
	assert.Contains(t, ce.Cycle, "B")
	assert.Contains(t, err.Error(), "circular dependency")
}

func TestOrder_SelfReference(t *testing.T) {
	asts := parseAll(t, map[string]string{
		"x": "x + 1",
	})
	_, err := Build(asts).Order()
	require.Error(t, err)
	var ce *CycleError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"x", "x"}, ce.Cycle)
}

func TestOrder_LongCycle(t *testing.T) {
	asts := parseAll(t, map[string]string{
		"a": "b",
		"b": "c",
		"c": "a",
		"d": "1",
	})
	_, err := Build(asts).Order()
	require.Error(t, err)
	var ce *CycleError
	require.ErrorAs(t, err, &ce)
	// The cycle closes on its starting field.
	assert.Equal(t, ce.Cycle[0], ce.Cycle[len(ce.Cycle)-1])
	assert.Contains(t, ce.Cycle, "a")
	assert.Contains(t, ce.Cycle, "b")
	assert.Contains(t, ce.Cycle, "c")
	assert.NotContains(t, ce.Cycle, "d")
}

func TestOrder_Empty(t *testing.T) {
	order, err := Build(map[string]formula.Node{}).Order()
	require.NoError(t, err)
	assert.Empty(t, order)
}
