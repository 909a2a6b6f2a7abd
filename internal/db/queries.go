package db

import (
	"database/sql"
	"strings"
	"time"

	"github.com/corentinmace/clockwork-sub000/internal/errors"
)

// ArchiveRecord is one indexed archive row.
type ArchiveRecord struct {
	ID           string  `json:"id"`
	GameRaw      string  `json:"game"`
	GameNorm     string  `json:"-"`
	NameRaw      string  `json:"name"`
	NameNorm     string  `json:"-"`
	Key          uint16  `json:"key"`
	MessageCount int     `json:"message_count"`
	SourcePath   *string `json:"source_path,omitempty"`
	DiagCount    int     `json:"diag_count"`
	CreatedAt    int64   `json:"created_at"`
	UpdatedAt    int64   `json:"updated_at"`
}

// ArchiveSummary is the list/search row shape: no message payload.
type ArchiveSummary struct {
	ID           string `json:"id"`
	Game         string `json:"game"`
	Name         string `json:"name"`
	Key          uint16 `json:"key"`
	MessageCount int    `json:"message_count"`
	DiagCount    int    `json:"diag_count"`
	UpdatedAt    int64  `json:"updated_at"`
}

// MessageRow is one indexed message with its archive position.
type MessageRow struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// SearchRow is one search hit: the message plus its archive address.
type SearchRow struct {
	ArchiveID string `json:"archive_id"`
	Game      string `json:"game"`
	Name      string `json:"name"`
	Index     int    `json:"index"`
	Text      string `json:"text"`
}

// GameRollup aggregates one game's indexed archives.
type GameRollup struct {
	Game        string `json:"game"`
	Archives    int    `json:"archives"`
	Messages    int    `json:"messages"`
	LastUpdated int64  `json:"last_updated"`
}

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
var ErrUniqueConstraint = &errors.ClockworkError{
	Code:    "UNIQUE_CONSTRAINT",
	Status:  409,
	Message: "unique constraint violation",
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// InsertArchive stores an archive row and all its messages in one
// transaction, so a half-indexed archive never becomes visible.
func InsertArchive(db *sql.DB, rec *ArchiveRecord, messages []string) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.NewInternal(err)
	}
	defer tx.Rollback()

	if err := insertArchiveTx(tx, rec, messages); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// ReplaceArchive deletes any archive at (game, name) and inserts rec in
// its place, atomically. Returns the id of the row that was replaced, or
// "" when the slot was empty.
func ReplaceArchive(db *sql.DB, rec *ArchiveRecord, messages []string) (string, error) {
	tx, err := db.Begin()
	if err != nil {
		return "", errors.NewInternal(err)
	}
	defer tx.Rollback()

	var previousID string
	err = tx.QueryRow(`SELECT id FROM archives WHERE game_norm = ? AND name_norm = ?`,
		rec.GameNorm, rec.NameNorm).Scan(&previousID)
	if err != nil && err != sql.ErrNoRows {
		return "", errors.NewInternal(err)
	}
	if previousID != "" {
		// Cascade removes the old messages.
		if _, err := tx.Exec(`DELETE FROM archives WHERE id = ?`, previousID); err != nil {
			return "", errors.NewInternal(err)
		}
	}

	if err := insertArchiveTx(tx, rec, messages); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", errors.NewInternal(err)
	}
	return previousID, nil
}

func insertArchiveTx(tx *sql.Tx, rec *ArchiveRecord, messages []string) error {
	sourcePath := toNullString(rec.SourcePath)
	_, err := tx.Exec(`
		INSERT INTO archives (
			id, game_raw, game_norm, name_raw, name_norm,
			key, message_count, source_path, diag_count,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.GameRaw, rec.GameNorm, rec.NameRaw, rec.NameNorm,
		rec.Key, rec.MessageCount, sourcePath, rec.DiagCount,
		rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}

	stmt, err := tx.Prepare(`INSERT INTO messages (archive_id, idx, text) VALUES (?, ?, ?)`)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer stmt.Close()
	for i, text := range messages {
		if _, err := stmt.Exec(rec.ID, i, text); err != nil {
			return errors.NewInternal(err)
		}
	}
	return nil
}

const archiveColumns = `id, game_raw, game_norm, name_raw, name_norm,
	key, message_count, source_path, diag_count, created_at, updated_at`

// GetByID retrieves an archive row by its ULID.
func GetByID(db *sql.DB, id string) (*ArchiveRecord, error) {
	row := db.QueryRow(`SELECT `+archiveColumns+` FROM archives WHERE id = ?`, id)
	rec, err := scanArchive(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return rec, nil
}

// GetByName retrieves an archive row by normalized game and name.
func GetByName(db *sql.DB, gameNorm, nameNorm string) (*ArchiveRecord, error) {
	row := db.QueryRow(`SELECT `+archiveColumns+` FROM archives WHERE game_norm = ? AND name_norm = ?`,
		gameNorm, nameNorm)
	rec, err := scanArchive(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(gameNorm + "/" + nameNorm)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return rec, nil
}

// CheckNameExists checks if an archive with the given name is indexed.
func CheckNameExists(db *sql.DB, gameNorm, nameNorm string) (bool, error) {
	var exists int
	err := db.QueryRow(`SELECT 1 FROM archives WHERE game_norm = ? AND name_norm = ? LIMIT 1`,
		gameNorm, nameNorm).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return true, nil
}

// ListByGame returns archive summaries for one game, newest first, with
// the total count for pagination.
func ListByGame(db *sql.DB, gameNorm string, limit, offset int) ([]ArchiveSummary, int, error) {
	var total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM archives WHERE game_norm = ?`, gameNorm).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	rows, err := db.Query(`
		SELECT id, game_raw, name_raw, key, message_count, diag_count, updated_at
		FROM archives
		WHERE game_norm = ?
		ORDER BY updated_at DESC, id DESC
		LIMIT ? OFFSET ?`, gameNorm, limit, offset)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var items []ArchiveSummary
	for rows.Next() {
		var s ArchiveSummary
		if err := rows.Scan(&s.ID, &s.Game, &s.Name, &s.Key, &s.MessageCount, &s.DiagCount, &s.UpdatedAt); err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	return items, total, nil
}

// GetMessages returns one page of an archive's messages in index order.
func GetMessages(db *sql.DB, archiveID string, limit, offset int) ([]MessageRow, error) {
	rows, err := db.Query(`
		SELECT idx, text FROM messages
		WHERE archive_id = ?
		ORDER BY idx
		LIMIT ? OFFSET ?`, archiveID, limit, offset)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var items []MessageRow
	for rows.Next() {
		var m MessageRow
		if err := rows.Scan(&m.Index, &m.Text); err != nil {
			return nil, errors.NewInternal(err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return items, nil
}

// GetMessage returns a single message by archive id and index.
func GetMessage(db *sql.DB, archiveID string, index int) (string, error) {
	var text string
	err := db.QueryRow(`SELECT text FROM messages WHERE archive_id = ? AND idx = ?`,
		archiveID, index).Scan(&text)
	if err == sql.ErrNoRows {
		return "", errors.NewNotFound(archiveID)
	}
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return text, nil
}

// escapeLike escapes LIKE wildcards in a user query so they match
// literally. The queries below use ESCAPE '\'.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// SearchMessages finds messages containing the query as a substring,
// case-insensitively for ASCII, optionally restricted to one game.
func SearchMessages(db *sql.DB, query string, gameNorm *string, limit, offset int) ([]SearchRow, int, error) {
	pattern := "%" + escapeLike(query) + "%"

	where := `m.text LIKE ? ESCAPE '\'`
	args := []any{pattern}
	if gameNorm != nil {
		where += ` AND a.game_norm = ?`
		args = append(args, *gameNorm)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM messages m JOIN archives a ON a.id = m.archive_id WHERE ` + where
	if err := db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	rows, err := db.Query(`
		SELECT m.archive_id, a.game_raw, a.name_raw, m.idx, m.text
		FROM messages m JOIN archives a ON a.id = m.archive_id
		WHERE `+where+`
		ORDER BY a.game_norm, a.name_norm, m.idx
		LIMIT ? OFFSET ?`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var items []SearchRow
	for rows.Next() {
		var r SearchRow
		if err := rows.Scan(&r.ArchiveID, &r.Game, &r.Name, &r.Index, &r.Text); err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	return items, total, nil
}

// InventoryByGame returns a per-game rollup over all indexed archives.
func InventoryByGame(db *sql.DB) ([]GameRollup, error) {
	rows, err := db.Query(`
		SELECT game_raw, COUNT(*), SUM(message_count), MAX(updated_at)
		FROM archives
		GROUP BY game_norm
		ORDER BY game_norm`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var items []GameRollup
	for rows.Next() {
		var g GameRollup
		if err := rows.Scan(&g.Game, &g.Archives, &g.Messages, &g.LastUpdated); err != nil {
			return nil, errors.NewInternal(err)
		}
		items = append(items, g)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return items, nil
}

// TouchArchive refreshes an archive's updated_at, for operations that
// rewrite the on-disk file an index row points at.
func TouchArchive(db *sql.DB, id string) error {
	result, err := db.Exec(`UPDATE archives SET updated_at = ? WHERE id = ?`, time.Now().Unix(), id)
	if err != nil {
		return errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if n == 0 {
		return errors.NewNotFound(id)
	}
	return nil
}

// DeleteByID removes one archive and, via cascade, its messages.
func DeleteByID(db *sql.DB, id string) error {
	result, err := db.Exec(`DELETE FROM archives WHERE id = ?`, id)
	if err != nil {
		return errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if n == 0 {
		return errors.NewNotFound(id)
	}
	return nil
}

// DeleteByGame removes every archive indexed for one game. Returns how
// many archives were removed.
func DeleteByGame(db *sql.DB, gameNorm string) (int, error) {
	result, err := db.Exec(`DELETE FROM archives WHERE game_norm = ?`, gameNorm)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(n), nil
}

// DeleteAll empties the index. Returns how many archives were removed.
func DeleteAll(db *sql.DB) (int, error) {
	result, err := db.Exec(`DELETE FROM archives`)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(n), nil
}

// scanArchive scans a single row into an ArchiveRecord.
func scanArchive(row *sql.Row) (*ArchiveRecord, error) {
	var (
		rec        ArchiveRecord
		sourcePath sql.NullString
	)
	err := row.Scan(
		&rec.ID, &rec.GameRaw, &rec.GameNorm, &rec.NameRaw, &rec.NameNorm,
		&rec.Key, &rec.MessageCount, &sourcePath, &rec.DiagCount,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.SourcePath = fromNullString(sourcePath)
	return &rec, nil
}

// toNullString converts a *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNullString converts a sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
