// Package gameid generates the room identifiers handed out by the server.
//
// IDs are UUIDv7 values rendered as 26 lower-case Crockford base32
// characters, so they sort by creation time and are safe in URLs and
// Redis keys.
package gameid

import (
	"encoding/base32"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the number of characters in an encoded ID
const Length = 26

var encoding = base32.NewEncoding(alphabet).WithPadding(base32.NoPadding)

// Generator creates IDs, optionally drawing random bits from a fixed reader
type Generator struct {
	rand io.Reader
}

// NewGenerator creates a generator. A nil reader uses crypto/rand.
func NewGenerator(r io.Reader) *Generator {
	return &Generator{rand: r}
}

// Generate creates a new ID using crypto/rand
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new ID. It panics only if the random source fails,
// which crypto/rand does not do in practice.
func (g *Generator) Generate() string {
	var (
		id  uuid.UUID
		err error
	)
	if g.rand != nil {
		id, err = uuid.NewV7FromReader(g.rand)
	} else {
		id, err = uuid.NewV7()
	}
	if err != nil {
		panic("failed to generate random bytes: " + err.Error())
	}
	return Encode(id)
}

// Encode renders a UUID in the 26 character form
func Encode(id uuid.UUID) string {
	return encoding.EncodeToString(id[:])
}

// Decode parses an encoded ID back into a UUID
func Decode(s string) (uuid.UUID, error) {
	if err := Validate(s); err != nil {
		return uuid.Nil, err
	}
	raw, err := encoding.DecodeString(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("game ID %q: %w", s, err)
	}
	return uuid.FromBytes(raw)
}

// Validate checks if a game ID is valid (26 characters, valid base32)
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("game ID must be exactly %d characters, got %d", Length, len(id))
	}
	for i, char := range id {
		if !isAlphabet(char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}

func isAlphabet(c rune) bool {
	for _, a := range alphabet {
		if c == a {
			return true
		}
	}
	return false
}
