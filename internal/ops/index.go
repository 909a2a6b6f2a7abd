package ops

import (
	"database/sql"
	"path/filepath"
	"strings"
	"time"

	"github.com/corentinmace/clockwork-sub000/internal/config"
	"github.com/corentinmace/clockwork-sub000/internal/db"
	"github.com/corentinmace/clockwork-sub000/internal/errors"
	"github.com/corentinmace/clockwork-sub000/internal/textarc"
)

// Conflict modes for Index.
const (
	IndexModeError   = "error"   // fail when (game, name) already exists
	IndexModeReplace = "replace" // replace the existing archive
)

// IndexInput contains parameters for the index operation.
type IndexInput struct {
	Path string // binary archive to index
	Game string // optional, defaults to "default"
	Name string // optional, defaults to the file stem
	Mode string // "error" (default) or "replace"
}

// IndexOutput is the result of an index operation.
type IndexOutput struct {
	ID           string               `json:"id"`
	Game         string               `json:"game"`
	Name         string               `json:"name"`
	Key          string               `json:"key"`
	MessageCount int                  `json:"message_count"`
	Replaced     bool                 `json:"replaced"`
	PreviousID   string               `json:"previous_id,omitempty"`
	Diagnostics  []textarc.Diagnostic `json:"diagnostics,omitempty"`
}

// Index decodes a binary archive and stores its messages in the search
// index under a (game, name) address.
func Index(database *sql.DB, cfg *config.Config, input IndexInput) (*IndexOutput, error) {
	path := strings.TrimSpace(input.Path)
	if path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}

	mode := strings.TrimSpace(input.Mode)
	if mode == "" {
		mode = IndexModeError
	}
	if mode != IndexModeError && mode != IndexModeReplace {
		return nil, errors.NewInvalidRequest("mode must be \"error\" or \"replace\"")
	}

	gameRaw := strings.TrimSpace(input.Game)
	if gameRaw == "" {
		gameRaw = "default"
	}
	nameRaw := strings.TrimSpace(input.Name)
	if nameRaw == "" {
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		nameRaw = SanitizeForFilename(stem)
	}

	tbl, err := resolveTable(cfg)
	if err != nil {
		return nil, err
	}
	arc, err := loadBinaryArchive(path, cfg, tbl)
	if err != nil {
		return nil, err
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	now := time.Now().Unix()
	source := path
	rec := &db.ArchiveRecord{
		ID:           id,
		GameRaw:      gameRaw,
		GameNorm:     Normalize(gameRaw),
		NameRaw:      nameRaw,
		NameNorm:     Normalize(nameRaw),
		Key:          arc.Key,
		MessageCount: len(arc.Messages),
		SourcePath:   &source,
		DiagCount:    len(arc.Diagnostics),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	out := &IndexOutput{
		ID:           id,
		Game:         gameRaw,
		Name:         nameRaw,
		Key:          formatKey(arc.Key),
		MessageCount: len(arc.Messages),
		Diagnostics:  arc.Diagnostics,
	}

	switch mode {
	case IndexModeReplace:
		prev, err := db.ReplaceArchive(database, rec, arc.Messages)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		if prev != "" {
			out.Replaced = true
			out.PreviousID = prev
		}
	default:
		if err := db.InsertArchive(database, rec, arc.Messages); err != nil {
			if err == db.ErrUniqueConstraint {
				return nil, errors.NewNameAlreadyExists(rec.GameNorm, rec.NameNorm)
			}
			return nil, errors.NewInternal(err)
		}
	}

	return out, nil
}
