package textarc

import (
	"strings"
	"testing"
)

func TestPackNameRoundTrip(t *testing.T) {
	tbl := testTable()
	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "one char", text: "A"},
		{name: "two chars", text: "AB"},
		{name: "three chars", text: "ABC"},
		{name: "seventeen chars", text: strings.Repeat("ABC", 5) + "AB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words, diags := PackName(tt.text, tbl)
			if len(diags) != 0 {
				t.Fatalf("unexpected diagnostics: %v", diags)
			}
			// 9 bits per character plus the 9-bit sentinel, 15 bits per word.
			n := len([]rune(tt.text))
			wantWords := (9*n + 9 + 14) / 15
			if len(words) != wantWords {
				t.Errorf("packed %d words, want %d", len(words), wantWords)
			}
			for i, w := range words {
				if w&0x8000 != 0 {
					t.Errorf("word %d = %04X has reserved top bit set", i, w)
				}
			}
			got, consumed, diags := UnpackName(words, tbl)
			if len(diags) != 0 {
				t.Fatalf("unpack diagnostics: %v", diags)
			}
			if got != tt.text {
				t.Errorf("round trip = %q, want %q", got, tt.text)
			}
			if consumed != len(words) {
				t.Errorf("consumed %d words, want %d", consumed, len(words))
			}
		})
	}
}

func TestPackNameUnmappableCharacter(t *testing.T) {
	tbl := testTable()
	words, diags := PackName("A€B", tbl)
	if len(diags) != 1 || diags[0].Code != DiagUnmappedText {
		t.Fatalf("diagnostics = %v, want one UNMAPPED_TEXT", diags)
	}
	// The bad glyph became code 0, which has no table entry and unpacks
	// as a raw escape.
	got, _, _ := UnpackName(words, tbl)
	if got != `A\x0000B` {
		t.Errorf("unpacked %q, want %q", got, `A\x0000B`)
	}
}

func TestPackNameRawCodeTooWide(t *testing.T) {
	tbl := testTable()
	_, diags := PackName(`\x0300`, tbl)
	if len(diags) != 1 || diags[0].Code != DiagNameOverflow {
		t.Fatalf("diagnostics = %v, want one NAME_OVERFLOW", diags)
	}
}

func TestUnpackNameMissingTerminator(t *testing.T) {
	tbl := testTable()
	// One word carrying "A" and the start of a second code, no sentinel.
	_, consumed, diags := UnpackName([]uint16{0x0001}, tbl)
	if consumed != 1 {
		t.Errorf("consumed = %d, want 1", consumed)
	}
	if len(diags) != 1 || diags[0].Code != DiagUnterminatedName {
		t.Errorf("diagnostics = %v, want one UNTERMINATED_NAME", diags)
	}
}

func TestUnpackNameStopsAtSentinel(t *testing.T) {
	tbl := testTable()
	words, _ := PackName("AB", tbl)
	// Trailing codes after the packed name belong to the enclosing
	// message and must not be consumed.
	words = append(words, 0x0003, 0x0001)
	got, consumed, _ := UnpackName(words, tbl)
	if got != "AB" {
		t.Errorf("unpacked %q, want %q", got, "AB")
	}
	if consumed != len(words)-2 {
		t.Errorf("consumed %d words, want %d", consumed, len(words)-2)
	}
}
