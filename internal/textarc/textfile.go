package textarc

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// keyHeaderPrefix starts the optional first line of the textual form.
const keyHeaderPrefix = "# Key: "

// WriteText writes the editable textual form: the key header, then one
// message per line. Control characters inside messages ride as the
// character map's backslash aliases, so a message never spans lines.
func WriteText(w io.Writer, arc *Archive) error {
	if _, err := fmt.Fprintf(w, "%s0x%04X\n", keyHeaderPrefix, arc.Key); err != nil {
		return fmt.Errorf("write key header: %w", err)
	}
	for i, msg := range arc.Messages {
		if _, err := fmt.Fprintln(w, msg); err != nil {
			return fmt.Errorf("write message %d: %w", i, err)
		}
	}
	return nil
}

// ReadText reads the textual form back into an archive. The key header is
// optional; without it the key is 0. Every other line is one message,
// empty lines included (an archive may legitimately hold empty messages).
func ReadText(r io.Reader) (*Archive, error) {
	arc := &Archive{Messages: []string{}}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			first = false
			if rest, ok := strings.CutPrefix(line, keyHeaderPrefix); ok {
				v, err := strconv.ParseUint(strings.TrimSpace(rest), 0, 16)
				if err != nil {
					return nil, fmt.Errorf("bad key header %q: %w", line, err)
				}
				arc.Key = uint16(v)
				continue
			}
		}
		arc.Messages = append(arc.Messages, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read text form: %w", err)
	}
	return arc, nil
}
