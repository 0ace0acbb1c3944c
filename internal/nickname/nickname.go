// Package nickname generates the placeholder nicknames given to users who
// sign up through an SNS provider.
package nickname

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

var adjectives = []string{
	"Brave", "Calm", "Clever", "Curious", "Eager", "Gentle", "Happy", "Jolly",
	"Kind", "Lively", "Lucky", "Mighty", "Nimble", "Proud", "Quick", "Quiet",
	"Shiny", "Silly", "Swift", "Witty",
}

var nouns = []string{
	"Badger", "Bear", "Cat", "Dolphin", "Eagle", "Falcon", "Fox", "Hedgehog",
	"Koala", "Lion", "Otter", "Owl", "Panda", "Penguin", "Rabbit", "Seal",
	"Squirrel", "Tiger", "Turtle", "Wolf",
}

// Generator produces nicknames of the form adjective + noun + four digits,
// e.g. "BraveOtter0421". It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewGenerator() *Generator {
	return &Generator{rnd: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededGenerator returns a Generator whose sequence is fixed by seed.
func NewSeededGenerator(seed uint64) *Generator {
	return &Generator{rnd: rand.New(rand.NewPCG(seed, seed))}
}

func (g *Generator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	adj := adjectives[g.rnd.IntN(len(adjectives))]
	noun := nouns[g.rnd.IntN(len(nouns))]
	return fmt.Sprintf("%s%s%04d", adj, noun, g.rnd.IntN(10000))
}
