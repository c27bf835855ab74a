// Package identity produces human-readable display names for connections:
// adjective-noun-number tokens like "river-fox-12", collision-checked
// against the set of names already in use.
package identity

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrNamespaceExhausted is returned when every name in the combinatorial
// space is already excluded. With the default word lists the space holds
// well over a million names, so this only happens with tiny test configs.
var ErrNamespaceExhausted = errors.New("identity: name space exhausted")

var defaultAdjectives = []string{
	"amber", "ashen", "bold", "brisk", "cobalt", "coral", "crimson", "dusty",
	"eager", "fabled", "gentle", "golden", "hidden", "ivory", "jade", "keen",
	"lively", "lunar", "mellow", "misty", "noble", "olive", "pale", "quiet",
	"rapid", "river", "rustic", "silent", "silver", "sturdy", "tidal", "velvet",
}

var defaultNouns = []string{
	"badger", "bear", "crane", "deer", "dove", "elk", "falcon", "finch",
	"fox", "hare", "heron", "ibis", "lark", "lynx", "marten", "mole",
	"otter", "owl", "pike", "quail", "raven", "robin", "seal", "shrew",
	"sparrow", "stoat", "swan", "swift", "trout", "vole", "wolf", "wren",
}

const defaultMaxNumber = 1000

// Config customizes a Generator. Zero fields fall back to the built-in
// word lists; tests shrink them to force collisions and exhaustion.
type Config struct {
	Adjectives []string
	Nouns      []string
	MaxNumber  int
}

// Generator builds display names from fixed word lists and a numeric
// suffix in [0, MaxNumber). It is stateless and safe for concurrent use;
// the caller supplies the exclusion set.
type Generator struct {
	adjectives []string
	nouns      []string
	maxNumber  int
}

// New creates a Generator, applying defaults for any zero Config field.
func New(cfg Config) *Generator {
	g := &Generator{
		adjectives: cfg.Adjectives,
		nouns:      cfg.Nouns,
		maxNumber:  cfg.MaxNumber,
	}
	if len(g.adjectives) == 0 {
		g.adjectives = defaultAdjectives
	}
	if len(g.nouns) == 0 {
		g.nouns = defaultNouns
	}
	if g.maxNumber <= 0 {
		g.maxNumber = defaultMaxNumber
	}
	return g
}

// Size returns the total number of distinct names the generator can produce.
func (g *Generator) Size() int {
	return len(g.adjectives) * len(g.nouns) * g.maxNumber
}

// Generate returns a name not present in exclude, or ErrNamespaceExhausted
// when no such name exists. Random probing finds a free name almost
// immediately while the namespace is sparse; a dense exclusion set falls
// through to an exhaustive scan so Generate always terminates.
func (g *Generator) Generate(exclude map[string]struct{}) (string, error) {
	if len(exclude) >= g.Size() {
		return "", ErrNamespaceExhausted
	}

	for i := 0; i < 64; i++ {
		name := g.compose(
			rand.IntN(len(g.adjectives)),
			rand.IntN(len(g.nouns)),
			rand.IntN(g.maxNumber),
		)
		if _, taken := exclude[name]; !taken {
			return name, nil
		}
	}

	for a := range g.adjectives {
		for n := range g.nouns {
			for k := 0; k < g.maxNumber; k++ {
				name := g.compose(a, n, k)
				if _, taken := exclude[name]; !taken {
					return name, nil
				}
			}
		}
	}
	return "", ErrNamespaceExhausted
}

func (g *Generator) compose(a, n, k int) string {
	return fmt.Sprintf("%s-%s-%d", g.adjectives[a], g.nouns[n], k)
}
