package ops

import (
	"strings"

	"github.com/corentinmace/clockwork-sub000/internal/config"
	"github.com/corentinmace/clockwork-sub000/internal/errors"
	"github.com/corentinmace/clockwork-sub000/internal/textarc"
)

// AppendInput contains parameters for the append operation.
type AppendInput struct {
	In   string // binary archive to edit
	Out  string // where to write the result; defaults to In (in place)
	Text string // message text to add at the end
}

// AppendOutput is the result of an append operation.
type AppendOutput struct {
	In           string               `json:"in"`
	Out          string               `json:"out"`
	Index        int                  `json:"index"` // index of the new message
	MessageCount int                  `json:"message_count"`
	Key          string               `json:"key"`
	Diagnostics  []textarc.Diagnostic `json:"diagnostics,omitempty"`
}

// Append adds a message to the end of a binary archive.
func Append(cfg *config.Config, input AppendInput) (*AppendOutput, error) {
	in := strings.TrimSpace(input.In)
	if in == "" {
		return nil, errors.NewInvalidRequest("in path is required")
	}
	out := strings.TrimSpace(input.Out)
	if out == "" {
		out = in
	}

	tbl, err := resolveTable(cfg)
	if err != nil {
		return nil, err
	}
	arc, err := loadBinaryArchive(in, cfg, tbl)
	if err != nil {
		return nil, err
	}
	if err := requireIntact(arc); err != nil {
		return nil, err
	}

	arc.Messages = append(arc.Messages, input.Text)
	data, diags, err := encodeArchive(arc, tbl)
	if err != nil {
		return nil, err
	}
	if err := writeFileAtomic(out, data); err != nil {
		return nil, err
	}

	return &AppendOutput{
		In:           in,
		Out:          out,
		Index:        len(arc.Messages) - 1,
		MessageCount: len(arc.Messages),
		Key:          formatKey(arc.Key),
		Diagnostics:  diags,
	}, nil
}
