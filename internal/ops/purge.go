package ops

import (
	"database/sql"
	"strings"

	"github.com/corentinmace/clockwork-sub000/internal/db"
	"github.com/corentinmace/clockwork-sub000/internal/errors"
)

// PurgeInput contains parameters for the purge operation.
type PurgeInput struct {
	ID   string // remove one archive
	Game string // remove every archive of one game
	All  bool   // remove the whole index
}

// PurgeOutput is the result of a purge operation.
type PurgeOutput struct {
	Removed int    `json:"removed"`
	Scope   string `json:"scope"` // "id", "game", or "all"
}

// Purge removes archives from the index. Exactly one of ID, Game, or
// All must be given; a bare call is refused rather than treated as
// purge-everything. On-disk files are never touched.
func Purge(database *sql.DB, input PurgeInput) (*PurgeOutput, error) {
	id := strings.TrimSpace(input.ID)
	game := strings.TrimSpace(input.Game)

	modes := 0
	if id != "" {
		modes++
	}
	if game != "" {
		modes++
	}
	if input.All {
		modes++
	}
	if modes == 0 {
		return nil, errors.NewInvalidRequest("must specify id, game, or all")
	}
	if modes > 1 {
		return nil, errors.NewAmbiguousAddressing()
	}

	switch {
	case id != "":
		if err := db.DeleteByID(database, id); err != nil {
			return nil, err
		}
		return &PurgeOutput{Removed: 1, Scope: "id"}, nil
	case game != "":
		n, err := db.DeleteByGame(database, Normalize(game))
		if err != nil {
			return nil, err
		}
		return &PurgeOutput{Removed: n, Scope: "game"}, nil
	default:
		n, err := db.DeleteAll(database)
		if err != nil {
			return nil, err
		}
		return &PurgeOutput{Removed: n, Scope: "all"}, nil
	}
}
