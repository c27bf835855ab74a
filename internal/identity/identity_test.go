package identity

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var namePattern = regexp.MustCompile(`^[a-z]+-[a-z]+-\d+$`)

func TestGenerateFormat(t *testing.T) {
	gen := New(Config{})

	for i := 0; i < 20; i++ {
		name, err := gen.Generate(nil)
		require.NoError(t, err)
		assert.Regexp(t, namePattern, name)
	}
}

func TestGenerateAvoidsExcluded(t *testing.T) {
	gen := New(Config{
		Adjectives: []string{"amber", "cobalt"},
		Nouns:      []string{"fox"},
		MaxNumber:  1,
	})
	exclude := map[string]struct{}{"amber-fox-0": {}}

	for i := 0; i < 50; i++ {
		name, err := gen.Generate(exclude)
		require.NoError(t, err)
		assert.Equal(t, "cobalt-fox-0", name)
	}
}

func TestGenerateExhaustsNamespace(t *testing.T) {
	gen := New(Config{
		Adjectives: []string{"solo"},
		Nouns:      []string{"fox"},
		MaxNumber:  1,
	})
	require.Equal(t, 1, gen.Size())

	name, err := gen.Generate(nil)
	require.NoError(t, err)
	require.Equal(t, "solo-fox-0", name)

	_, err = gen.Generate(map[string]struct{}{name: {}})
	assert.ErrorIs(t, err, ErrNamespaceExhausted)
}

func TestGenerateFillsDenseNamespace(t *testing.T) {
	gen := New(Config{
		Adjectives: []string{"amber", "cobalt"},
		Nouns:      []string{"fox", "owl"},
		MaxNumber:  2,
	})
	require.Equal(t, 8, gen.Size())

	taken := make(map[string]struct{})
	for i := 0; i < 8; i++ {
		name, err := gen.Generate(taken)
		require.NoError(t, err)
		_, dup := taken[name]
		require.False(t, dup, "duplicate name %q", name)
		taken[name] = struct{}{}
	}

	_, err := gen.Generate(taken)
	assert.ErrorIs(t, err, ErrNamespaceExhausted)
}
