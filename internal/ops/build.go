package ops

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/corentinmace/clockwork-sub000/internal/config"
	"github.com/corentinmace/clockwork-sub000/internal/errors"
	"github.com/corentinmace/clockwork-sub000/internal/textarc"
)

// BuildInput contains parameters for the build operation.
type BuildInput struct {
	In  string  // text file to read
	Out string  // binary archive to write; defaults to In with a .msg extension
	Key *string // optional key override, "0xHHHH" or decimal
}

// BuildOutput is the result of a build operation.
type BuildOutput struct {
	In           string               `json:"in"`
	Out          string               `json:"out"`
	Key          string               `json:"key"`
	MessageCount int                  `json:"message_count"`
	Bytes        int                  `json:"bytes"`
	Diagnostics  []textarc.Diagnostic `json:"diagnostics,omitempty"`
}

// Build encodes a text file back into a binary message archive. Unmapped
// characters and unknown commands degrade to null codes with warnings
// rather than failing the whole build.
func Build(cfg *config.Config, input BuildInput) (*BuildOutput, error) {
	in := strings.TrimSpace(input.In)
	if in == "" {
		return nil, errors.NewInvalidRequest("in path is required")
	}
	out := strings.TrimSpace(input.Out)
	if out == "" {
		out = swapExt(in, ".msg")
	}

	tbl, err := resolveTable(cfg)
	if err != nil {
		return nil, err
	}
	arc, err := loadTextArchive(in, cfg)
	if err != nil {
		return nil, err
	}

	if k := cleanOptionalString(input.Key); k != nil {
		key, err := parseKey(*k)
		if err != nil {
			return nil, err
		}
		arc.Key = key
	}

	data, diags, err := encodeArchive(arc, tbl)
	if err != nil {
		return nil, err
	}
	if err := writeFileAtomic(out, data); err != nil {
		return nil, err
	}

	return &BuildOutput{
		In:           in,
		Out:          out,
		Key:          formatKey(arc.Key),
		MessageCount: len(arc.Messages),
		Bytes:        len(data),
		Diagnostics:  diags,
	}, nil
}

// parseKey accepts "0xHHHH", plain hex is not assumed: bare digits parse
// as decimal, matching strconv's base-0 rules.
func parseKey(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, errors.NewInvalidRequest(fmt.Sprintf("invalid key %q: must be a 16-bit value like 0x1234", s))
	}
	return uint16(v), nil
}
