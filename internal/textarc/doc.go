// Package textarc reads and writes Generation IV message archives: the
// binary text banks whose offset/length table and message bodies are
// obfuscated with index-seeded XOR keystreams, and whose 16-bit code
// streams embed commands, bit-packed trainer names, and a terminator.
//
// The package converts between three forms:
//
//   - the binary archive stream (Decode, Encode)
//   - one editable line per message with an optional key header
//     (ReadText, WriteText)
//   - a token list per message (DecodeMessage, ParseText, ...) for callers
//     that need to inspect commands rather than flat text
//
// Bad input never aborts a whole archive. A corrupt table entry stops the
// table walk and keeps the messages already decoded; an unmappable token
// encodes as a single null code. Every such event is reported as a
// Diagnostic on the result instead of an error.
package textarc
