package ops

import (
	"bytes"
	"strings"

	"github.com/corentinmace/clockwork-sub000/internal/config"
	"github.com/corentinmace/clockwork-sub000/internal/errors"
	"github.com/corentinmace/clockwork-sub000/internal/textarc"
)

// DumpInput contains parameters for the dump operation.
type DumpInput struct {
	In  string // binary archive to read
	Out string // text file to write; defaults to In with a .txt extension
}

// DumpOutput is the result of a dump operation.
type DumpOutput struct {
	In           string               `json:"in"`
	Out          string               `json:"out"`
	Key          string               `json:"key"`
	MessageCount int                  `json:"message_count"`
	Diagnostics  []textarc.Diagnostic `json:"diagnostics,omitempty"`
}

// Dump decodes a binary message archive into its editable text form.
// Corrupt entries drop out of the text file; the diagnostics say which.
func Dump(cfg *config.Config, input DumpInput) (*DumpOutput, error) {
	in := strings.TrimSpace(input.In)
	if in == "" {
		return nil, errors.NewInvalidRequest("in path is required")
	}
	out := strings.TrimSpace(input.Out)
	if out == "" {
		out = swapExt(in, ".txt")
	}

	tbl, err := resolveTable(cfg)
	if err != nil {
		return nil, err
	}
	arc, err := loadBinaryArchive(in, cfg, tbl)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := textarc.WriteText(&buf, arc); err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := writeFileAtomic(out, buf.Bytes()); err != nil {
		return nil, err
	}

	return &DumpOutput{
		In:           in,
		Out:          out,
		Key:          formatKey(arc.Key),
		MessageCount: len(arc.Messages),
		Diagnostics:  arc.Diagnostics,
	}, nil
}
