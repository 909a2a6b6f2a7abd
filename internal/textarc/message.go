package textarc

import (
	"github.com/corentinmace/clockwork-sub000/internal/chartable"
)

// Reserved codes in the plaintext stream. The decode map is consulted
// first, so a table that maps one of these wins over the special meaning.
const (
	codeCommand     = 0xFFFE
	codeTrainerName = 0xF100
	codeTerminator  = 0xFFFF
)

// DecodeTokens walks a plaintext code stream and produces the token list
// for one message. It stops at the terminator and never emits it; the
// terminator is an encoding artifact, not content.
func DecodeTokens(codes []uint16, tbl *chartable.Table) ([]Token, []Diagnostic) {
	var (
		toks  []Token
		diags []Diagnostic
		lit   []byte
	)
	flush := func() {
		if len(lit) > 0 {
			toks = append(toks, Literal(string(lit)))
			lit = lit[:0]
		}
	}
	for i := 0; i < len(codes); {
		c := codes[i]
		if s, ok := tbl.Decode(c); ok {
			lit = append(lit, s...)
			i++
			continue
		}
		switch c {
		case codeTerminator:
			flush()
			return toks, diags
		case codeCommand:
			tok, n, d, ok := decodeCommand(codes[i:], tbl)
			if !ok {
				// Stream ends inside the command. Keep the codes that are
				// there as raw escapes so nothing is silently dropped.
				flush()
				diags = append(diags, warnDiag(DiagTruncatedCommand, "stream ends inside command at code %d", i))
				for ; i < len(codes); i++ {
					toks = append(toks, RawCode(codes[i]))
				}
				return toks, diags
			}
			flush()
			toks = append(toks, tok)
			diags = append(diags, d...)
			i += n
		case codeTrainerName:
			flush()
			text, consumed, d := UnpackName(codes[i+1:], tbl)
			toks = append(toks, TrainerName(text))
			diags = append(diags, d...)
			i += 1 + consumed
		default:
			flush()
			toks = append(toks, RawCode(c))
			i++
		}
	}
	flush()
	return toks, diags
}

// decodeCommand reads one command starting at the 0xFFFE escape. ok is
// false when the stream ends before the command is complete.
func decodeCommand(codes []uint16, tbl *chartable.Table) (Token, int, []Diagnostic, bool) {
	if len(codes) < 3 {
		return Token{}, 0, nil, false
	}
	id := codes[1]
	count := int(codes[2])
	if len(codes) < 3+count {
		return Token{}, 0, nil, false
	}
	special := uint16(0)
	if _, known := tbl.CommandName(id); !known {
		// The engine piggybacks a small parameter in the low byte of some
		// command ids. Fold it out when the masked id is the one we know.
		if _, maskedKnown := tbl.CommandName(id & 0xFF00); maskedKnown {
			special = id & 0x00FF
			id &= 0xFF00
		}
	}
	params := make([]uint16, count)
	copy(params, codes[3:3+count])
	tok := Token{kind: KindCommand, id: id, special: special, params: params}
	if name, ok := tbl.CommandName(id); ok {
		tok.name = name
	}
	return tok, 3 + count, nil, true
}

// DecodeMessage renders one plaintext code stream as editable text.
func DecodeMessage(codes []uint16, tbl *chartable.Table) (string, []Diagnostic) {
	toks, diags := DecodeTokens(codes, tbl)
	return RenderTokens(toks), diags
}

// EncodeTokens lowers a token list to plaintext codes, terminator
// included. Unresolvable fragments and commands become a single null code
// with a diagnostic; the rest of the message still encodes.
func EncodeTokens(toks []Token, tbl *chartable.Table) ([]uint16, []Diagnostic) {
	var (
		codes []uint16
		diags []Diagnostic
	)
	for _, t := range toks {
		switch t.kind {
		case KindLiteral:
			for _, f := range scanFragments(t.text) {
				if f.raw {
					codes = append(codes, f.code)
					continue
				}
				c, ok := tbl.Encode(f.text)
				if !ok {
					diags = append(diags, errDiag(DiagUnmappedText, "no code for %q", f.text))
					c = 0
				}
				codes = append(codes, c)
			}
		case KindRawCode:
			codes = append(codes, t.code)
		case KindTrainerName:
			words, d := PackName(t.text, tbl)
			diags = append(diags, d...)
			codes = append(codes, codeTrainerName)
			codes = append(codes, words...)
		case KindCommand:
			cs, d := encodeCommand(t, tbl)
			diags = append(diags, d...)
			codes = append(codes, cs...)
		}
	}
	return append(codes, codeTerminator), diags
}

func encodeCommand(t Token, tbl *chartable.Table) ([]uint16, []Diagnostic) {
	id := t.id
	if t.name != "" {
		resolved, ok := tbl.CommandID(t.name)
		if !ok {
			v, err := parseCode(t.name)
			if err != nil {
				return []uint16{0}, []Diagnostic{errDiag(DiagUnknownCommand, "unknown command %q", t.name)}
			}
			resolved = v
		}
		id = resolved
	}
	if t.special > 0xFF {
		return []uint16{0}, []Diagnostic{errDiag(DiagUnknownCommand, "command %s: special byte %d exceeds one byte", t.name, t.special)}
	}
	id |= t.special
	out := make([]uint16, 0, 3+len(t.params))
	out = append(out, codeCommand, id, uint16(len(t.params)))
	return append(out, t.params...), nil
}

// EncodeMessage converts editable text to a plaintext code stream,
// terminator included.
func EncodeMessage(text string, tbl *chartable.Table) ([]uint16, []Diagnostic) {
	toks, diags := ParseText(text)
	codes, d := EncodeTokens(toks, tbl)
	return codes, append(diags, d...)
}
