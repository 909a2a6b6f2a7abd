package ops

import (
	"strings"

	"github.com/corentinmace/clockwork-sub000/internal/config"
	"github.com/corentinmace/clockwork-sub000/internal/errors"
	"github.com/corentinmace/clockwork-sub000/internal/textarc"
)

// previewRunes caps the per-message preview in inspect reports.
const previewRunes = 64

// InspectInput contains parameters for the inspect operation.
type InspectInput struct {
	In      string // binary archive to read
	Preview int    // cap on previewed messages; 0 means all
}

// InspectMessage summarizes one decoded message.
type InspectMessage struct {
	Index   int    `json:"index"`
	Length  int    `json:"length"` // rune count of the decoded text
	Preview string `json:"preview"`
}

// InspectOutput is the result of an inspect operation.
type InspectOutput struct {
	In           string               `json:"in"`
	Key          string               `json:"key"`
	MessageCount int                  `json:"message_count"`
	Messages     []InspectMessage     `json:"messages"`
	Diagnostics  []textarc.Diagnostic `json:"diagnostics,omitempty"`
}

// Inspect decodes a binary message archive and reports on it without
// writing anything.
func Inspect(cfg *config.Config, input InspectInput) (*InspectOutput, error) {
	in := strings.TrimSpace(input.In)
	if in == "" {
		return nil, errors.NewInvalidRequest("in path is required")
	}
	if input.Preview < 0 {
		return nil, errors.NewInvalidRequest("preview must not be negative")
	}

	tbl, err := resolveTable(cfg)
	if err != nil {
		return nil, err
	}
	arc, err := loadBinaryArchive(in, cfg, tbl)
	if err != nil {
		return nil, err
	}

	shown := len(arc.Messages)
	if input.Preview > 0 && input.Preview < shown {
		shown = input.Preview
	}
	msgs := make([]InspectMessage, shown)
	for i, m := range arc.Messages[:shown] {
		msgs[i] = InspectMessage{
			Index:   i,
			Length:  len([]rune(m)),
			Preview: previewOf(m),
		}
	}

	return &InspectOutput{
		In:           in,
		Key:          formatKey(arc.Key),
		MessageCount: len(arc.Messages),
		Messages:     msgs,
		Diagnostics:  arc.Diagnostics,
	}, nil
}

func previewOf(s string) string {
	r := []rune(s)
	if len(r) <= previewRunes {
		return s
	}
	return string(r[:previewRunes]) + "…"
}
