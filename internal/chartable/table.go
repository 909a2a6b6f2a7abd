// Package chartable loads the character tables that map 16-bit text codes
// to editable text fragments and back.
//
// A table source is a line-oriented superset of the .tbl convention used by
// ROM translation tools: `CODE=text` or `CODE=kind=text`, where CODE is a
// hexadecimal 16-bit code and kind is one of char, escape, alias, command.
// Text values are verbatim; a two-character spelling like `\n` stays two
// characters, which is what keeps decoded messages single-line.
//
// Tables are immutable once built and safe for unsynchronized concurrent
// reads. Codec calls take a *Table explicitly; nothing in this package or
// its consumers relies on hidden global state.
package chartable

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Entry kinds accepted by the table source.
//
// char and escape populate both directions. alias populates the encode
// direction only, so several spellings can share a code. command names a
// control code for the message grammar and touches neither text map.
const (
	KindChar    = "char"
	KindEscape  = "escape"
	KindAlias   = "alias"
	KindCommand = "command"
)

// Table holds the three mappings derived from one table source: code to
// text fragment, text fragment to code, and command id to name (with its
// reverse for encoding). Zero value is unusable; build with Load or New.
type Table struct {
	decode     map[uint16]string
	encode     map[string]uint16
	commands   map[uint16]string
	commandIDs map[string]uint16
	warnings   []string
}

// Entry is one table row, used to build synthetic tables directly.
type Entry struct {
	Code uint16
	Kind string
	Text string
}

//go:embed default.tbl
var defaultSource string

var defaultTable = sync.OnceValues(func() (*Table, error) {
	return Load(strings.NewReader(defaultSource))
})

// Default returns the embedded character table, built once per process.
// The returned table is shared; callers must not rely on identity beyond
// reading from it.
func Default() (*Table, error) {
	return defaultTable()
}

// LoadFile loads a table from path. A missing or unreadable file is an
// error; without a table no codec operation can run.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("character table %s: %w", path, err)
	}
	defer f.Close()
	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("character table %s: %w", path, err)
	}
	return t, nil
}

// Load parses a table source. Malformed lines are skipped, not fatal;
// Warnings lists them afterwards. Only a read failure returns an error.
func Load(r io.Reader) (*Table, error) {
	t := newTable()
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if s := strings.TrimSpace(line); s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		code, kind, text, err := splitEntry(line)
		if err != nil {
			t.warnf("line %d: %v", lineNum, err)
			continue
		}
		if err := t.add(code, kind, text); err != nil {
			t.warnf("line %d: %v", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read character table: %w", err)
	}
	return t, nil
}

// New builds a table from explicit entries, applying the same rules as
// Load. Invalid entries are skipped and reported through Warnings.
func New(entries []Entry) *Table {
	t := newTable()
	for i, e := range entries {
		if err := t.add(e.Code, e.Kind, e.Text); err != nil {
			t.warnf("entry %d: %v", i, err)
		}
	}
	return t
}

func newTable() *Table {
	return &Table{
		decode:     make(map[uint16]string),
		encode:     make(map[string]uint16),
		commands:   make(map[uint16]string),
		commandIDs: make(map[string]uint16),
	}
}

// splitEntry parses one source line. The kind field is optional; a line
// whose second field is not a recognized kind is read as CODE=text with a
// literal '=' in the text.
func splitEntry(line string) (code uint16, kind, text string, err error) {
	parts := strings.SplitN(line, "=", 3)
	if len(parts) < 2 {
		return 0, "", "", fmt.Errorf("missing '=' separator in %q", strings.TrimSpace(line))
	}
	codeField := strings.TrimSpace(parts[0])
	v, perr := strconv.ParseUint(codeField, 16, 16)
	if perr != nil {
		return 0, "", "", fmt.Errorf("bad code %q", codeField)
	}
	kind = KindChar
	if len(parts) == 3 {
		switch strings.TrimSpace(parts[1]) {
		case KindChar, KindEscape, KindAlias, KindCommand:
			kind = strings.TrimSpace(parts[1])
			text = parts[2]
		default:
			text = parts[1] + "=" + parts[2]
		}
	} else {
		text = parts[1]
	}
	return uint16(v), kind, text, nil
}

// add applies one entry. First entry wins in every map, so source order is
// the priority order.
func (t *Table) add(code uint16, kind, text string) error {
	if text == "" {
		return fmt.Errorf("code %04X: empty text", code)
	}
	switch kind {
	case KindChar, KindEscape:
		if prev, dup := t.decode[code]; dup {
			return fmt.Errorf("code %04X already maps to %q", code, prev)
		}
		t.decode[code] = text
		if _, taken := t.encode[text]; !taken {
			t.encode[text] = code
		}
	case KindAlias:
		if prev, dup := t.encode[text]; dup {
			return fmt.Errorf("alias %q already maps to %04X", text, prev)
		}
		t.encode[text] = code
	case KindCommand:
		if prev, dup := t.commands[code]; dup {
			return fmt.Errorf("command %04X already named %q", code, prev)
		}
		t.commands[code] = text
		if _, taken := t.commandIDs[text]; !taken {
			t.commandIDs[text] = code
		}
	default:
		return fmt.Errorf("code %04X: unknown kind %q", code, kind)
	}
	return nil
}

func (t *Table) warnf(format string, args ...any) {
	t.warnings = append(t.warnings, fmt.Sprintf(format, args...))
}

// Decode returns the text fragment for a code.
func (t *Table) Decode(code uint16) (string, bool) {
	s, ok := t.decode[code]
	return s, ok
}

// Encode returns the code for a text fragment spelling.
func (t *Table) Encode(fragment string) (uint16, bool) {
	c, ok := t.encode[fragment]
	return c, ok
}

// CommandName returns the name registered for a command id.
func (t *Table) CommandName(id uint16) (string, bool) {
	s, ok := t.commands[id]
	return s, ok
}

// CommandID returns the id registered for a command name.
func (t *Table) CommandID(name string) (uint16, bool) {
	id, ok := t.commandIDs[name]
	return id, ok
}

// Chars reports the number of decodable codes.
func (t *Table) Chars() int { return len(t.decode) }

// Spellings reports the number of encodable text fragments.
func (t *Table) Spellings() int { return len(t.encode) }

// Commands reports the number of named commands.
func (t *Table) Commands() int { return len(t.commands) }

// Warnings lists the source lines skipped during load.
func (t *Table) Warnings() []string { return t.warnings }
