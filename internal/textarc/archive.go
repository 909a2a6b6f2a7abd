package textarc

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/corentinmace/clockwork-sub000/internal/chartable"
)

// MaxMessages is the most messages one archive can address; the on-disk
// count field is 16 bits.
const MaxMessages = 0xFFFF

const headerSize = 4
const entrySize = 8

// Archive is one decoded message archive: the shared cipher key and the
// messages in on-disk order. Diagnostics collects every recoverable
// problem found while producing it.
type Archive struct {
	Key         uint16       `json:"key"`
	Messages    []string     `json:"messages"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Decode reads a binary message archive. It fails outright only when the
// stream is too short to carry the header; anything past that degrades to
// diagnostics on the returned archive. A corrupt table entry stops the
// table walk and keeps the messages already decoded, so a damaged archive
// still opens as far as it can.
func Decode(r io.Reader, tbl *chartable.Table) (*Archive, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	if len(data) < headerSize {
		return nil, fmt.Errorf("archive too short: %d bytes, need %d for header", len(data), headerSize)
	}
	count := int(binary.LittleEndian.Uint16(data[0:2]))
	key := binary.LittleEndian.Uint16(data[2:4])
	arc := &Archive{Key: key, Messages: []string{}}

	tableEnd := headerSize + count*entrySize
	if tableEnd > len(data) {
		arc.Diagnostics = append(arc.Diagnostics, errDiag(DiagCorruptEntry,
			"table needs %d bytes, archive has %d", tableEnd, len(data)))
		return arc, nil
	}

	body := data[tableEnd:]
	bodyCodes := make([]uint16, len(body)/2)
	for i := range bodyCodes {
		bodyCodes[i] = binary.LittleEndian.Uint16(body[2*i:])
	}

	consumed := 0
	for i := 0; i < count; i++ {
		entry := data[headerSize+i*entrySize:]
		mask := entryMask(i, key)
		offset := int32(binary.LittleEndian.Uint32(entry[0:4]) ^ mask)
		length := int32(binary.LittleEndian.Uint32(entry[4:8]) ^ mask)
		if offset < 0 || length < 0 || int(offset)+int(length) > len(bodyCodes) {
			arc.Diagnostics = append(arc.Diagnostics, Diagnostic{
				Message:  i,
				Severity: SeverityError,
				Code:     DiagCorruptEntry,
				Detail:   fmt.Sprintf("entry %d: offset %d length %d outside body of %d codes", i, offset, length, len(bodyCodes)),
			})
			break
		}
		codes := make([]uint16, length)
		copy(codes, bodyCodes[offset:int(offset)+int(length)])
		CryptMessage(codes, i+1)
		text, diags := DecodeMessage(codes, tbl)
		arc.Messages = append(arc.Messages, text)
		arc.Diagnostics = append(arc.Diagnostics, tagDiags(diags, i)...)
		if end := int(offset) + int(length); end > consumed {
			consumed = end
		}
	}

	if len(arc.Messages) == count {
		if consumed < len(bodyCodes) {
			arc.Diagnostics = append(arc.Diagnostics, warnDiag(DiagResidualData,
				"%d unconsumed codes after last message", len(bodyCodes)-consumed))
		}
		if len(body)%2 != 0 {
			arc.Diagnostics = append(arc.Diagnostics, warnDiag(DiagResidualData,
				"odd trailing byte after body region"))
		}
	}
	return arc, nil
}

// Encode writes arc in binary form: header, masked table, then the
// ciphered bodies back to back. Returned diagnostics report lossy token
// substitutions; they do not prevent the write.
func Encode(w io.Writer, arc *Archive, tbl *chartable.Table) ([]Diagnostic, error) {
	if len(arc.Messages) > MaxMessages {
		return nil, fmt.Errorf("archive holds %d messages, format limit is %d", len(arc.Messages), MaxMessages)
	}

	var diags []Diagnostic
	bodies := make([][]uint16, len(arc.Messages))
	for i, msg := range arc.Messages {
		codes, d := EncodeMessage(msg, tbl)
		CryptMessage(codes, i+1)
		bodies[i] = codes
		diags = append(diags, tagDiags(d, i)...)
	}

	out := make([]byte, 0, headerSize+len(bodies)*entrySize)
	out = binary.LittleEndian.AppendUint16(out, uint16(len(arc.Messages)))
	out = binary.LittleEndian.AppendUint16(out, arc.Key)

	offset := int32(0)
	for i, codes := range bodies {
		mask := entryMask(i, arc.Key)
		out = binary.LittleEndian.AppendUint32(out, uint32(offset)^mask)
		out = binary.LittleEndian.AppendUint32(out, uint32(int32(len(codes)))^mask)
		offset += int32(len(codes))
	}
	for _, codes := range bodies {
		for _, c := range codes {
			out = binary.LittleEndian.AppendUint16(out, c)
		}
	}

	if _, err := w.Write(out); err != nil {
		return diags, fmt.Errorf("write archive: %w", err)
	}
	return diags, nil
}
