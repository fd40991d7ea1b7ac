package generator

import (
	"math/rand"

	"github.com/google/uuid"
)

// IDSource hands out opaque, globally unique identifiers.
type IDSource interface {
	NewID() string
}

// idSalt separates the id stream from the attribute stream of the same seed.
const idSalt = 0x5eed1d5

type seededIDs struct {
	rand *rand.Rand
}

// SeededIDs returns version 4 UUIDs drawn from their own generator seeded
// from seed, so two runs with the same seed produce the same ids without
// touching the attribute stream.
func SeededIDs(seed int64) IDSource {
	return &seededIDs{rand: rand.New(rand.NewSource(seed ^ idSalt))}
}

func (s *seededIDs) NewID() string {
	id, err := uuid.NewRandomFromReader(s.rand)
	if err != nil {
		// math/rand never fails to read
		panic(err)
	}
	return id.String()
}

type randomIDs struct{}

// RandomIDs returns crypto random UUIDs.
func RandomIDs() IDSource {
	return randomIDs{}
}

func (randomIDs) NewID() string {
	return uuid.NewString()
}
