package ops

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/corentinmace/clockwork-sub000/internal/db"
	"github.com/corentinmace/clockwork-sub000/internal/errors"
)

// snippetRadius is how many runes of context a search snippet keeps on
// each side of the first match.
const snippetRadius = 40

// SearchInput contains parameters for the search operation.
type SearchInput struct {
	Query  string
	Game   *string // optional game filter
	Limit  int
	Offset int
}

// SearchHit is one search result with a context snippet instead of the
// full message text.
type SearchHit struct {
	ArchiveID string `json:"archive_id"`
	Game      string `json:"game"`
	Name      string `json:"name"`
	Index     int    `json:"index"`
	Snippet   string `json:"snippet"`
}

// SearchOutput is the result of a search operation.
type SearchOutput struct {
	Query      string      `json:"query"`
	Hits       []SearchHit `json:"hits"`
	Pagination Pagination  `json:"pagination"`
}

// Search finds indexed messages containing a substring, optionally
// restricted to one game. Matching is case-insensitive.
func Search(database *sql.DB, input SearchInput) (*SearchOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, errors.NewInvalidRequest("query is required")
	}
	if len(query) > MaxQueryLength {
		return nil, errors.NewInvalidRequest(
			fmt.Sprintf("query too long: %d bytes (max %d)", len(query), MaxQueryLength))
	}

	var gameNorm *string
	if g := cleanOptionalString(input.Game); g != nil {
		n := Normalize(*g)
		gameNorm = &n
	}

	limit := clampLimit(input.Limit, DefaultSearchLimit, MaxSearchLimit)
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	rows, total, err := db.SearchMessages(database, query, gameNorm, limit, offset)
	if err != nil {
		return nil, err
	}

	hits := make([]SearchHit, len(rows))
	for i, r := range rows {
		hits[i] = SearchHit{
			ArchiveID: r.ArchiveID,
			Game:      r.Game,
			Name:      r.Name,
			Index:     r.Index,
			Snippet:   snippetAround(r.Text, query),
		}
	}

	return &SearchOutput{
		Query: query,
		Hits:  hits,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(hits) < total,
			Total:   total,
		},
	}, nil
}

// snippetAround trims text to a window around the first case-insensitive
// occurrence of query, with ellipses marking the cuts.
func snippetAround(text, query string) string {
	lower := strings.ToLower(text)
	pos := strings.Index(lower, strings.ToLower(query))
	if pos < 0 {
		// Matched via LIKE but not by plain substring (shouldn't happen);
		// fall back to the head of the message.
		pos = 0
	}

	runes := []rune(text)
	start := len([]rune(text[:pos]))
	end := start + len([]rune(query))
	if end > len(runes) {
		end = len(runes)
	}

	lo := start - snippetRadius
	if lo < 0 {
		lo = 0
	}
	hi := end + snippetRadius
	if hi > len(runes) {
		hi = len(runes)
	}

	var b strings.Builder
	if lo > 0 {
		b.WriteString("…")
	}
	b.WriteString(string(runes[lo:hi]))
	if hi < len(runes) {
		b.WriteString("…")
	}
	return b.String()
}
