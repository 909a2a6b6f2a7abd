package ops

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/corentinmace/clockwork-sub000/internal/chartable"
	"github.com/corentinmace/clockwork-sub000/internal/errors"
	"github.com/corentinmace/clockwork-sub000/internal/textarc"
)

func isCode(err error, code string) bool {
	return errors.Is(err, errors.ErrorCode(code))
}

// writeArchiveFile encodes messages with the embedded default table and
// writes the binary archive to dir/name.
func writeArchiveFile(t *testing.T, dir, name string, key uint16, messages []string) string {
	t.Helper()
	tbl, err := chartable.Default()
	if err != nil {
		t.Fatalf("default table: %v", err)
	}
	var buf bytes.Buffer
	diags, err := textarc.Encode(&buf, &textarc.Archive{Key: key, Messages: messages}, tbl)
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("fixture should encode cleanly, got %v", diags)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}
