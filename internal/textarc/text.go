package textarc

import (
	"fmt"
	"strconv"
	"strings"
)

const trainerNamePrefix = "TRAINER_NAME:"

// fragment is one encodable unit of literal text: either a spelling to
// look up in the encode map (single character, \c pair, or [..] alias) or
// a raw \xHHHH code that bypasses the table.
type fragment struct {
	text string
	code uint16
	raw  bool
}

// scanFragments splits literal text into encodable units. The scanner
// always advances, so unresolvable input degrades to single-character
// fragments rather than looping.
func scanFragments(s string) []fragment {
	runes := []rune(s)
	var frags []fragment
	for i := 0; i < len(runes); {
		r := runes[i]
		if r == '\\' && i+6 <= len(runes) && runes[i+1] == 'x' {
			if v, err := strconv.ParseUint(string(runes[i+2:i+6]), 16, 16); err == nil {
				frags = append(frags, fragment{raw: true, code: uint16(v)})
				i += 6
				continue
			}
		}
		if r == '\\' && i+1 < len(runes) {
			frags = append(frags, fragment{text: string(runes[i : i+2])})
			i += 2
			continue
		}
		if r == '[' {
			if j := indexRune(runes, ']', i+1); j >= 0 {
				frags = append(frags, fragment{text: string(runes[i : j+1])})
				i = j + 1
				continue
			}
		}
		frags = append(frags, fragment{text: string(r)})
		i++
	}
	return frags
}

func indexRune(runes []rune, r rune, from int) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == r {
			return i
		}
	}
	return -1
}

// ParseText splits message text into tokens: brace groups become command
// or trainer-name tokens, everything else stays literal text for the
// encode map. A backslash always protects its following character, so a
// spelling like \{ never opens a group.
func ParseText(s string) ([]Token, []Diagnostic) {
	var (
		toks  []Token
		diags []Diagnostic
		lit   []rune
	)
	flush := func() {
		if len(lit) > 0 {
			toks = append(toks, Literal(string(lit)))
			lit = lit[:0]
		}
	}
	runes := []rune(s)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case r == '\\' && i+1 < len(runes):
			lit = append(lit, r, runes[i+1])
			i += 2
		case r == '{':
			j := indexRune(runes, '}', i+1)
			if j < 0 {
				diags = append(diags, warnDiag(DiagBadSyntax, "unterminated '{' at position %d", i))
				lit = append(lit, r)
				i++
				continue
			}
			flush()
			tok, d := parseBrace(string(runes[i+1 : j]))
			toks = append(toks, tok)
			diags = append(diags, d...)
			i = j + 1
		default:
			lit = append(lit, r)
			i++
		}
	}
	flush()
	return toks, diags
}

// parseBrace interprets one {...} body as a trainer name or a command.
// Malformed numeric fields default to zero with a diagnostic; the token is
// still produced so the rest of the message keeps encoding.
func parseBrace(body string) (Token, []Diagnostic) {
	if rest, ok := strings.CutPrefix(body, trainerNamePrefix); ok {
		return TrainerName(rest), nil
	}
	var diags []Diagnostic
	fields := strings.Split(body, ",")
	name := strings.TrimSpace(fields[0])
	if name == "" {
		diags = append(diags, warnDiag(DiagBadSyntax, "empty command name in {%s}", body))
	}
	special := uint16(0)
	if len(fields) > 1 {
		v, err := parseCode(strings.TrimSpace(fields[1]))
		if err != nil {
			diags = append(diags, warnDiag(DiagBadSyntax, "command %s: bad special byte %q", name, strings.TrimSpace(fields[1])))
		} else {
			special = v
		}
	}
	var params []uint16
	for _, f := range fields[2:] {
		v, err := parseCode(strings.TrimSpace(f))
		if err != nil {
			diags = append(diags, warnDiag(DiagBadSyntax, "command %s: bad parameter %q", name, strings.TrimSpace(f)))
			v = 0
		}
		params = append(params, v)
	}
	return Command(name, special, params...), diags
}

// parseCode parses a 16-bit value in decimal or 0x hex.
func parseCode(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

// RenderTokens serializes tokens back to editable message text.
func RenderTokens(toks []Token) string {
	var sb strings.Builder
	for _, t := range toks {
		switch t.kind {
		case KindLiteral:
			sb.WriteString(t.text)
		case KindTrainerName:
			sb.WriteByte('{')
			sb.WriteString(trainerNamePrefix)
			sb.WriteString(t.text)
			sb.WriteByte('}')
		case KindCommand:
			renderCommand(&sb, t)
		case KindRawCode:
			fmt.Fprintf(&sb, `\x%04X`, t.code)
		}
	}
	return sb.String()
}

func renderCommand(sb *strings.Builder, t Token) {
	sb.WriteByte('{')
	if t.name != "" {
		sb.WriteString(t.name)
	} else {
		fmt.Fprintf(sb, "0x%04X", t.id)
	}
	fmt.Fprintf(sb, ", %d", t.special)
	for _, p := range t.params {
		fmt.Fprintf(sb, ", %d", p)
	}
	sb.WriteByte('}')
}
