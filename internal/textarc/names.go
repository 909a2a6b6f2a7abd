package textarc

import (
	"fmt"
	"strings"

	"github.com/corentinmace/clockwork-sub000/internal/chartable"
)

// Trainer names pack 9-bit character codes LSB-first into 15-bit words.
// The top bit of each stored 16-bit word is reserved by the engine and
// stays zero. 0x1FF terminates the packed stream and pads the final word.
const (
	nameSentinel = 0x1FF
	nameCodeBits = 9
	nameWordBits = 15
)

// PackName encodes name text into packed trainer-name words. Characters
// with no table code, or with codes wider than 9 bits, become code 0 and a
// diagnostic; one bad glyph never fails the message.
func PackName(text string, tbl *chartable.Table) ([]uint16, []Diagnostic) {
	var (
		words []uint16
		diags []Diagnostic
		buf   uint32
		bits  int
	)
	pack := func(code uint16) {
		buf |= uint32(code) << bits
		bits += nameCodeBits
		if bits >= nameWordBits {
			words = append(words, uint16(buf&0x7FFF))
			buf >>= nameWordBits
			bits -= nameWordBits
		}
	}
	for _, f := range scanFragments(text) {
		code := f.code
		if !f.raw {
			c, ok := tbl.Encode(f.text)
			if !ok {
				diags = append(diags, errDiag(DiagUnmappedText, "trainer name: no code for %q", f.text))
				c = 0
			}
			code = c
		}
		if code > nameSentinel {
			diags = append(diags, errDiag(DiagNameOverflow, "trainer name: code %04X does not fit in 9 bits", code))
			code = 0
		}
		pack(code)
	}
	pack(nameSentinel)
	if bits > 0 {
		words = append(words, uint16(buf&0x7FFF))
	}
	return words, diags
}

// UnpackName is the mirror of PackName. It reads 9-bit values out of the
// packed words until the sentinel, returning the decoded characters and
// how many words it consumed; pad bits in the final word are discarded.
func UnpackName(words []uint16, tbl *chartable.Table) (string, int, []Diagnostic) {
	var (
		sb       strings.Builder
		diags    []Diagnostic
		buf      uint32
		bits     int
		consumed int
	)
	for {
		if bits < nameCodeBits {
			if consumed == len(words) {
				diags = append(diags, warnDiag(DiagUnterminatedName, "trainer name missing terminator"))
				break
			}
			buf |= uint32(words[consumed]&0x7FFF) << bits
			consumed++
			bits += nameWordBits
		}
		code := uint16(buf & 0x1FF)
		buf >>= nameCodeBits
		bits -= nameCodeBits
		if code == nameSentinel {
			break
		}
		if s, ok := tbl.Decode(code); ok {
			sb.WriteString(s)
		} else {
			fmt.Fprintf(&sb, `\x%04X`, code)
		}
	}
	return sb.String(), consumed, diags
}
