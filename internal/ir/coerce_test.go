package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce_Text(t *testing.T) {
	// TEXT never fails.
	tests := []struct {
		v    Value
		want string
	}{
		{Null{}, ""},
		{Number(15), "15.0"},
		{Number(12.5), "12.5"},
		{Bool(true), "true"},
		{Text("already text"), "already text"},
	}
	for _, tt := range tests {
		got, err := Coerce(tt.v, TargetText)
		require.NoError(t, err)
		assert.Equal(t, Text(tt.want), got)
	}
}

func TestCoerce_Number(t *testing.T) {
	got, err := Coerce(Number(12.5), TargetNumber)
	require.NoError(t, err)
	assert.Equal(t, Number(12.5), got)

	// Strict: booleans are not numbers in this language.
	_, err = Coerce(Bool(true), TargetNumber)
	require.Error(t, err)
	assert.True(t, IsCoerceError(err))

	// Strict: no implicit parsing of numeric-looking text.
	_, err = Coerce(Text("12.5"), TargetNumber)
	require.Error(t, err)
	assert.True(t, IsCoerceError(err))

	_, err = Coerce(Null{}, TargetNumber)
	require.Error(t, err)
	assert.True(t, IsCoerceError(err))
}

func TestCoerce_Boolean(t *testing.T) {
	// BOOLEAN never fails; it applies the truthiness rule.
	tests := []struct {
		v    Value
		want bool
	}{
		{Null{}, false},
		{Bool(true), true},
		{Bool(false), false},
		{Number(0), false},
		{Number(3), true},
		{Text(""), false},
		{Text("no"), true},
	}
	for _, tt := range tests {
		got, err := Coerce(tt.v, TargetBoolean)
		require.NoError(t, err)
		assert.Equal(t, Bool(tt.want), got)
	}
}

func TestCoerceError_Message(t *testing.T) {
	_, err := Coerce(Bool(true), TargetNumber)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boolean")
	assert.Contains(t, err.Error(), "NUMBER")
}

func TestParseTargetType(t *testing.T) {
	for _, s := range []string{"TEXT", "NUMBER", "BOOLEAN"} {
		tt, err := ParseTargetType(s)
		require.NoError(t, err)
		assert.Equal(t, TargetType(s), tt)
	}
	_, err := ParseTargetType("DATE")
	assert.Error(t, err)
}
