package textarc

// Keystream constants used by the game engine. These must not change: any
// deviation decodes to plausible-looking garbage rather than an error.
const (
	entryKeyMul = 765
	bodySeedMul = 596947
	bodyStep    = 18749
)

// entryMask returns the 32-bit XOR mask obfuscating table row i (0-based)
// under the archive key. The 16-bit row key is replicated into both halves
// so one mask covers the offset and length words alike.
func entryMask(i int, key uint16) uint32 {
	k := (uint32(i+1) * entryKeyMul * uint32(key)) & 0xFFFF
	return k | k<<16
}

// CryptMessage XORs the body keystream for the 1-based message index over
// codes, in place. XOR is its own inverse, so the same call encrypts and
// decrypts.
func CryptMessage(codes []uint16, idx int) {
	state := uint16(uint32(idx) * bodySeedMul)
	for i := range codes {
		codes[i] ^= state
		state += bodyStep
	}
}
