package textarc

import (
	"bytes"
	"encoding/binary"
	"sync"
	"testing"
)

func encodeArchive(t *testing.T, arc *Archive) []byte {
	t.Helper()
	var buf bytes.Buffer
	diags, err := Encode(&buf, arc, testTable())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("Encode diagnostics: %v", diags)
	}
	return buf.Bytes()
}

func TestArchiveRoundTrip(t *testing.T) {
	tbl := testTable()
	arc := &Archive{
		Key: 0x0D5E,
		Messages: []string{
			"ABC",
			"",
			`AB\nC {SOME_CMD, 7, 42}`,
			"{TRAINER_NAME:AB} A",
			`\x9999`,
		},
	}
	data := encodeArchive(t, arc)

	got, err := Decode(bytes.NewReader(data), tbl)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got.Key != arc.Key {
		t.Errorf("key = %04X, want %04X", got.Key, arc.Key)
	}
	if len(got.Diagnostics) != 0 {
		t.Errorf("diagnostics: %v", got.Diagnostics)
	}
	if len(got.Messages) != len(arc.Messages) {
		t.Fatalf("decoded %d messages, want %d", len(got.Messages), len(arc.Messages))
	}
	for i := range arc.Messages {
		if got.Messages[i] != arc.Messages[i] {
			t.Errorf("message %d = %q, want %q", i, got.Messages[i], arc.Messages[i])
		}
	}
}

func TestArchiveBodiesAreObfuscated(t *testing.T) {
	data := encodeArchive(t, &Archive{Key: 0x1234, Messages: []string{"AAAA"}})
	// The body region must not contain the plaintext code for 'A' in
	// sequence; the keystream advances per code.
	body := data[headerSize+entrySize:]
	runs := 0
	for i := 0; i+1 < len(body); i += 2 {
		if binary.LittleEndian.Uint16(body[i:]) == 0x0001 {
			runs++
		}
	}
	if runs > 1 {
		t.Errorf("body looks unciphered: %x", body)
	}
}

func TestDecodeCorruptEntryKeepsPartialResult(t *testing.T) {
	tbl := testTable()
	arc := &Archive{Key: 0x0042, Messages: []string{"AB", "BC", "CA"}}
	data := encodeArchive(t, arc)

	// Rewrite entry 1's offset so it decodes far outside the body.
	mask := entryMask(1, arc.Key)
	binary.LittleEndian.PutUint32(data[headerSize+entrySize:], uint32(0x40000000)^mask)

	got, err := Decode(bytes.NewReader(data), tbl)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(got.Messages) != 1 {
		t.Fatalf("decoded %d messages, want exactly 1", len(got.Messages))
	}
	if got.Messages[0] != "AB" {
		t.Errorf("message 0 = %q, want %q", got.Messages[0], "AB")
	}
	if CountErrors(got.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %v, want one error", got.Diagnostics)
	}
	d := got.Diagnostics[0]
	if d.Code != DiagCorruptEntry || d.Message != 1 {
		t.Errorf("diagnostic = %+v, want CORRUPT_ENTRY on message 1", d)
	}
}

func TestDecodeResidualData(t *testing.T) {
	tbl := testTable()
	data := encodeArchive(t, &Archive{Key: 1, Messages: []string{"A"}})

	t.Run("trailing codes", func(t *testing.T) {
		got, err := Decode(bytes.NewReader(append(append([]byte{}, data...), 0xAA, 0xBB)), tbl)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if len(got.Messages) != 1 {
			t.Fatalf("decoded %d messages, want 1", len(got.Messages))
		}
		if len(got.Diagnostics) != 1 || got.Diagnostics[0].Code != DiagResidualData || got.Diagnostics[0].Severity != SeverityWarn {
			t.Errorf("diagnostics = %v, want one RESIDUAL_DATA warning", got.Diagnostics)
		}
	})

	t.Run("odd trailing byte", func(t *testing.T) {
		got, err := Decode(bytes.NewReader(append(append([]byte{}, data...), 0xAA)), tbl)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if len(got.Diagnostics) != 1 || got.Diagnostics[0].Code != DiagResidualData {
			t.Errorf("diagnostics = %v, want one RESIDUAL_DATA warning", got.Diagnostics)
		}
	})
}

func TestDecodeShortStream(t *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte{0x01}), testTable()); err == nil {
		t.Error("expected error for stream shorter than the header")
	}
}

func TestDecodeTruncatedTable(t *testing.T) {
	// Header claims 4 messages but the table is missing.
	data := []byte{0x04, 0x00, 0x34, 0x12}
	got, err := Decode(bytes.NewReader(data), testTable())
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(got.Messages) != 0 {
		t.Errorf("decoded %d messages, want 0", len(got.Messages))
	}
	if CountErrors(got.Diagnostics) != 1 {
		t.Errorf("diagnostics = %v, want one error", got.Diagnostics)
	}
}

func TestEncodeTooManyMessages(t *testing.T) {
	arc := &Archive{Messages: make([]string, MaxMessages+1)}
	if _, err := Encode(&bytes.Buffer{}, arc, testTable()); err == nil {
		t.Error("expected error above the message count limit")
	}
}

func TestConcurrentDecode(t *testing.T) {
	tbl := testTable()
	arc := &Archive{Key: 0x7777, Messages: []string{"ABC", "{SOME_CMD, 7}", "{TRAINER_NAME:AB}"}}
	data := encodeArchive(t, arc)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := Decode(bytes.NewReader(data), tbl)
			if err != nil {
				t.Errorf("Decode failed: %v", err)
				return
			}
			for i := range arc.Messages {
				if got.Messages[i] != arc.Messages[i] {
					t.Errorf("message %d = %q, want %q", i, got.Messages[i], arc.Messages[i])
				}
			}
		}()
	}
	wg.Wait()
}
