package ops

import (
	"database/sql"
	"strings"

	"github.com/corentinmace/clockwork-sub000/internal/db"
)

// ListInput contains parameters for the list operation.
type ListInput struct {
	Game   string // optional, defaults to "default"
	Limit  int
	Offset int
}

// ListOutput is the result of a list operation.
type ListOutput struct {
	Game       string              `json:"game"`
	Archives   []db.ArchiveSummary `json:"archives"`
	Pagination Pagination          `json:"pagination"`
}

// List returns indexed archives for one game, newest first.
func List(database *sql.DB, input ListInput) (*ListOutput, error) {
	game := Normalize(strings.TrimSpace(input.Game))
	if game == "" {
		game = "default"
	}

	limit := clampLimit(input.Limit, DefaultListLimit, MaxListLimit)
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	archives, total, err := db.ListByGame(database, game, limit, offset)
	if err != nil {
		return nil, err
	}

	return &ListOutput{
		Game:     game,
		Archives: archives,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(archives) < total,
			Total:   total,
		},
	}, nil
}
