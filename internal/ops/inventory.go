package ops

import (
	"database/sql"

	"github.com/corentinmace/clockwork-sub000/internal/db"
)

// InventoryOutput is the result of an inventory operation.
type InventoryOutput struct {
	Games         []db.GameRollup `json:"games"`
	TotalArchives int             `json:"total_archives"`
	TotalMessages int             `json:"total_messages"`
}

// Inventory rolls the index up by game.
func Inventory(database *sql.DB) (*InventoryOutput, error) {
	games, err := db.InventoryByGame(database)
	if err != nil {
		return nil, err
	}

	out := &InventoryOutput{Games: games}
	for _, g := range games {
		out.TotalArchives += g.Archives
		out.TotalMessages += g.Messages
	}
	return out, nil
}
