package ops

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/corentinmace/clockwork-sub000/internal/chartable"
	"github.com/corentinmace/clockwork-sub000/internal/config"
	"github.com/corentinmace/clockwork-sub000/internal/errors"
	"github.com/corentinmace/clockwork-sub000/internal/textarc"
)

// resolveTable returns the character table configured for this run: a
// game-specific file when table_path is set, the embedded default
// otherwise. A table that cannot be loaded makes every codec operation
// fail, so the error is the fatal TABLE_UNAVAILABLE.
func resolveTable(cfg *config.Config) (*chartable.Table, error) {
	var (
		tbl *chartable.Table
		err error
	)
	if cfg != nil && cfg.TablePath != "" {
		tbl, err = chartable.LoadFile(cfg.TablePath)
	} else {
		tbl, err = chartable.Default()
	}
	if err != nil {
		return nil, errors.NewTableUnavailable(err)
	}
	for _, w := range tbl.Warnings() {
		log.Printf("chartable: skipped %s", w)
	}
	return tbl, nil
}

func maxArchiveBytes(cfg *config.Config) int64 {
	if cfg != nil && cfg.MaxArchiveBytes > 0 {
		return cfg.MaxArchiveBytes
	}
	return config.DefaultMaxArchiveBytes
}

// readCapped reads a whole input file, enforcing the configured size cap
// before touching its contents.
func readCapped(path string, cfg *config.Config) ([]byte, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, errors.NewFileNotFound(path)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	if max := maxArchiveBytes(cfg); info.Size() > max {
		return nil, errors.NewArchiveTooLarge(max, info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return data, nil
}

// loadBinaryArchive reads and decodes one binary message archive.
func loadBinaryArchive(path string, cfg *config.Config, tbl *chartable.Table) (*textarc.Archive, error) {
	data, err := readCapped(path, cfg)
	if err != nil {
		return nil, err
	}
	arc, err := textarc.Decode(bytes.NewReader(data), tbl)
	if err != nil {
		return nil, errors.NewCorruptArchive(err)
	}
	return arc, nil
}

// loadTextArchive reads the editable text form of an archive.
func loadTextArchive(path string, cfg *config.Config) (*textarc.Archive, error) {
	data, err := readCapped(path, cfg)
	if err != nil {
		return nil, err
	}
	arc, err := textarc.ReadText(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}
	return arc, nil
}

// encodeArchive runs the full grammar-and-cipher encode into a buffer so
// nothing touches the output file until the whole archive encoded.
func encodeArchive(arc *textarc.Archive, tbl *chartable.Table) ([]byte, []textarc.Diagnostic, error) {
	var buf bytes.Buffer
	diags, err := textarc.Encode(&buf, arc, tbl)
	if err != nil {
		return nil, diags, errors.NewInvalidRequest(err.Error())
	}
	return buf.Bytes(), diags, nil
}

// requireIntact refuses in-place edits of archives that lost entries to
// corruption: re-encoding would silently write the survivors under new
// indexes. Dump and rebuild is the recovery path.
func requireIntact(arc *textarc.Archive) error {
	if n := textarc.CountErrors(arc.Diagnostics); n > 0 {
		return errors.NewCorruptArchive(
			fmt.Errorf("archive has %d corrupt entries; dump and rebuild it instead of patching", n))
	}
	return nil
}

// swapExt replaces path's extension, used for default output paths.
func swapExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
