package textarc

import (
	"testing"
)

// The keystream constants are load-bearing: a wrong constant produces
// plausible-looking garbage, not an error. These vectors pin them.

func TestEntryMaskFixedVectors(t *testing.T) {
	tests := []struct {
		i    int
		key  uint16
		want uint32
	}{
		{i: 0, key: 0x1234, want: 0x65646564},
		{i: 1, key: 0x1234, want: 0xCAC8CAC8},
		{i: 0, key: 0x0000, want: 0x00000000},
		{i: 5, key: 0x0001, want: 0x11EE11EE},
	}
	for _, tt := range tests {
		if got := entryMask(tt.i, tt.key); got != tt.want {
			t.Errorf("entryMask(%d, %04X) = %08X, want %08X", tt.i, tt.key, got, tt.want)
		}
	}
}

func TestBodyKeystreamFixedVector(t *testing.T) {
	// Crypting zeros exposes the raw keystream.
	codes := make([]uint16, 5)
	CryptMessage(codes, 1)

	want := []uint16{0x1BD3, 0x6510, 0xAE4D, 0xF78A, 0x40C7}
	for i, w := range want {
		if codes[i] != w {
			t.Errorf("keystream[%d] = %04X, want %04X", i, codes[i], w)
		}
	}
}

func TestCryptMessageSelfInverse(t *testing.T) {
	original := []uint16{0x0001, 0xFFFE, 0x1A07, 0x0000, 0xFFFF, 0x1234}
	for _, idx := range []int{1, 2, 255, 65535} {
		codes := make([]uint16, len(original))
		copy(codes, original)
		CryptMessage(codes, idx)
		CryptMessage(codes, idx)
		for i := range codes {
			if codes[i] != original[i] {
				t.Fatalf("idx %d: code %d = %04X after double crypt, want %04X", idx, i, codes[i], original[i])
			}
		}
	}
}

func TestCryptMessageChangesCodes(t *testing.T) {
	codes := []uint16{0x0001, 0x0002, 0x0003}
	CryptMessage(codes, 1)
	if codes[0] == 0x0001 && codes[1] == 0x0002 && codes[2] == 0x0003 {
		t.Error("CryptMessage left codes unchanged")
	}
}
