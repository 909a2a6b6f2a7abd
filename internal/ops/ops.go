package ops

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/corentinmace/clockwork-sub000/internal/errors"
)

// Pagination limits
const (
	DefaultListLimit    = 20
	MaxListLimit        = 100
	DefaultMessageLimit = 50
	MaxMessageLimit     = 500
	DefaultSearchLimit  = 20
	MaxSearchLimit      = 100
	MaxQueryLength      = 256
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// whitespaceRegex matches one or more whitespace characters
var whitespaceRegex = regexp.MustCompile(`\s+`)

// Normalize lowercases, trims, and collapses internal whitespace, so
// "Platinum " and "platinum" address the same index rows.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return s
}

// Address represents a validated archive address.
type Address struct {
	ByID bool
	ID   string
	Game string // normalized, defaulted to "default" for name-mode
	Name string // normalized
}

// ValidateAddress validates addressing parameters and returns a normalized Address.
// Rules:
// - Must specify exactly one addressing mode: id OR (game + name)
// - If id provided with name or game → ErrAmbiguousAddressing
// - If neither id nor name provided → ErrInvalidRequest
func ValidateAddress(id, game, name string) (*Address, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	game = strings.TrimSpace(game)

	hasID := id != ""
	hasName := name != ""
	hasGame := game != ""

	// Strict: id must be alone, no other addressing fields
	if hasID && (hasName || hasGame) {
		return nil, errors.NewAmbiguousAddressing()
	}

	if !hasID && !hasName {
		return nil, errors.NewInvalidRequest("must specify either id or name")
	}

	if hasID {
		return &Address{
			ByID: true,
			ID:   id,
		}, nil
	}

	// ByName mode
	gameNorm := Normalize(game)
	if gameNorm == "" {
		gameNorm = "default"
	}
	nameNorm := Normalize(name)
	if nameNorm == "" {
		return nil, errors.NewInvalidRequest("name must not be empty")
	}

	return &Address{
		ByID: false,
		Game: gameNorm,
		Name: nameNorm,
	}, nil
}

// clampLimit applies the default and upper bound for a page size.
func clampLimit(v, def, max int) int {
	if v <= 0 {
		return def
	}
	if v > max {
		return max
	}
	return v
}

// cleanOptionalString trims an optional string, dropping it entirely
// when only whitespace remains.
func cleanOptionalString(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// formatKey renders an archive key the way the text form spells it.
func formatKey(key uint16) string {
	return fmt.Sprintf("0x%04X", key)
}
