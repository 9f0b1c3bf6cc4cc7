package shortener

import (
	"fmt"

	"github.com/jaevor/go-nanoid"
)

// Alphabet is the set of symbols short ids are drawn from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultIDLength is the length of generated ids unless configured otherwise.
const DefaultIDLength = 6

// IDGenerator produces a random short id. It does not check uniqueness.
type IDGenerator func() string

// NewIDGenerator returns a generator of ids with the given length, drawn
// uniformly at random from Alphabet.
func NewIDGenerator(length int) (IDGenerator, error) {
	gen, err := nanoid.CustomASCII(Alphabet, length)
	if err != nil {
		return nil, fmt.Errorf("create id generator of length %d: %w", length, err)
	}

	return gen, nil
}

// Generate returns a single random id of the given length.
func Generate(length int) (string, error) {
	gen, err := NewIDGenerator(length)
	if err != nil {
		return "", err
	}

	return gen(), nil
}
