package ops

import (
	"database/sql"

	"github.com/corentinmace/clockwork-sub000/internal/db"
)

// FetchInput contains parameters for the fetch operation.
type FetchInput struct {
	ID      string
	Game    string
	Name    string
	Message *int // when set, return exactly this message instead of a page
	Limit   int
	Offset  int
}

// FetchOutput is the result of a fetch operation. Message is set for
// single-message fetches, Messages plus Pagination otherwise.
type FetchOutput struct {
	Archive    *db.ArchiveRecord `json:"archive"`
	Message    *db.MessageRow    `json:"message,omitempty"`
	Messages   []db.MessageRow   `json:"messages,omitempty"`
	Pagination *Pagination       `json:"pagination,omitempty"`
}

// Fetch retrieves an indexed archive and its message text, addressed by
// id or by (game, name).
func Fetch(database *sql.DB, input FetchInput) (*FetchOutput, error) {
	addr, err := ValidateAddress(input.ID, input.Game, input.Name)
	if err != nil {
		return nil, err
	}

	var rec *db.ArchiveRecord
	if addr.ByID {
		rec, err = db.GetByID(database, addr.ID)
	} else {
		rec, err = db.GetByName(database, addr.Game, addr.Name)
	}
	if err != nil {
		return nil, err
	}

	if input.Message != nil {
		text, err := db.GetMessage(database, rec.ID, *input.Message)
		if err != nil {
			return nil, err
		}
		return &FetchOutput{
			Archive: rec,
			Message: &db.MessageRow{Index: *input.Message, Text: text},
		}, nil
	}

	limit := clampLimit(input.Limit, DefaultMessageLimit, MaxMessageLimit)
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	msgs, err := db.GetMessages(database, rec.ID, limit, offset)
	if err != nil {
		return nil, err
	}

	return &FetchOutput{
		Archive:  rec,
		Messages: msgs,
		Pagination: &Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(msgs) < rec.MessageCount,
			Total:   rec.MessageCount,
		},
	}, nil
}
