package textarc

import (
	"github.com/corentinmace/clockwork-sub000/internal/chartable"
)

// testTable builds a small synthetic table covering every entry kind so
// the codec tests run without the embedded default table.
func testTable() *chartable.Table {
	entries := []chartable.Entry{
		{Code: 0x0001, Kind: chartable.KindChar, Text: "A"},
		{Code: 0x0002, Kind: chartable.KindChar, Text: "B"},
		{Code: 0x0003, Kind: chartable.KindChar, Text: "C"},
		{Code: 0x0004, Kind: chartable.KindChar, Text: "a"},
		{Code: 0x0005, Kind: chartable.KindChar, Text: "b"},
		{Code: 0x0006, Kind: chartable.KindChar, Text: "!"},
		{Code: 0x0010, Kind: chartable.KindChar, Text: " "},
		{Code: 0x0011, Kind: chartable.KindEscape, Text: `\n`},
		{Code: 0x0012, Kind: chartable.KindAlias, Text: "[PK]"},
		{Code: 0x1A00, Kind: chartable.KindCommand, Text: "SOME_CMD"},
		{Code: 0x1000, Kind: chartable.KindCommand, Text: "COLOR"},
	}
	return chartable.New(entries)
}
