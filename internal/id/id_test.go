package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Format(t *testing.T) {
	got, err := Generate(PrefixLoan)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "loan-"))
	// NanoID default length is 21.
	assert.Len(t, got, len("loan-")+21)
}

func TestGenerate_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for range 1000 {
		got, err := Generate(PrefixBook)
		require.NoError(t, err)
		assert.False(t, seen[got], "ID should be unique: %s", got)
		seen[got] = true
	}
	assert.Len(t, seen, 1000)
}

func TestMustGenerate(t *testing.T) {
	assert.NotPanics(t, func() {
		got := MustGenerate(PrefixMember)
		assert.True(t, strings.HasPrefix(got, "mem-"))
	})
}
