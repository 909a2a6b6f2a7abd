package ops

import (
	"fmt"
	"strings"

	"github.com/corentinmace/clockwork-sub000/internal/config"
	"github.com/corentinmace/clockwork-sub000/internal/errors"
	"github.com/corentinmace/clockwork-sub000/internal/textarc"
)

// PatchInput contains parameters for the patch operation.
type PatchInput struct {
	In    string // binary archive to edit
	Out   string // where to write the result; defaults to In (in place)
	Index int    // 0-based message index to replace
	Text  string // replacement message text
}

// PatchOutput is the result of a patch operation.
type PatchOutput struct {
	In          string               `json:"in"`
	Out         string               `json:"out"`
	Index       int                  `json:"index"`
	Key         string               `json:"key"`
	Diagnostics []textarc.Diagnostic `json:"diagnostics,omitempty"`
}

// Patch replaces one message in a binary archive and re-encodes the
// whole file, since every offset after the edit moves.
func Patch(cfg *config.Config, input PatchInput) (*PatchOutput, error) {
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
	if input.Index < 0 || input.Index >= len(arc.Messages) {
		return nil, errors.NewInvalidRequest(
			fmt.Sprintf("index %d out of range: archive has %d messages", input.Index, len(arc.Messages)))
	}

	arc.Messages[input.Index] = input.Text
	data, diags, err := encodeArchive(arc, tbl)
	if err != nil {
		return nil, err
	}
	if err := writeFileAtomic(out, data); err != nil {
		return nil, err
	}

	return &PatchOutput{
		In:          in,
		Out:         out,
		Index:       input.Index,
		Key:         formatKey(arc.Key),
		Diagnostics: diags,
	}, nil
}
