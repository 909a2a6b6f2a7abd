package textarc

// TokenKind discriminates the Token union.
type TokenKind int

const (
	// KindLiteral is a run of ordinary text, possibly containing alias and
	// \xHHHH spellings that resolve against the table at encode time.
	KindLiteral TokenKind = iota
	// KindCommand is an embedded control command with parameters.
	KindCommand
	// KindTrainerName is the bit-packed name sub-format.
	KindTrainerName
	// KindRawCode is a single code with no table entry, rendered \xHHHH.
	KindRawCode
)

func (k TokenKind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindCommand:
		return "command"
	case KindTrainerName:
		return "trainer-name"
	case KindRawCode:
		return "raw-code"
	}
	return "unknown"
}

// Token is one element of a decoded message. Construct with Literal,
// Command, CommandByID, TrainerName, or RawCode; inspect through Kind and
// the per-variant accessors.
type Token struct {
	kind    TokenKind
	text    string   // literal and trainer-name content
	name    string   // command name as parsed or looked up; "" when only the id is known
	id      uint16   // command id
	special uint16   // command special byte
	params  []uint16 // command parameters
	code    uint16   // raw code value
}

// Literal builds a literal-text token.
func Literal(text string) Token {
	return Token{kind: KindLiteral, text: text}
}

// TrainerName builds a trainer-name token from its unpacked characters.
func TrainerName(text string) Token {
	return Token{kind: KindTrainerName, text: text}
}

// RawCode builds a token for a single unmapped code.
func RawCode(code uint16) Token {
	return Token{kind: KindRawCode, code: code}
}

// Command builds a command token addressed by name. The name may also be a
// numeric id spelled 0xHHHH or decimal; resolution happens at encode time.
func Command(name string, special uint16, params ...uint16) Token {
	return Token{kind: KindCommand, name: name, special: special, params: params}
}

// CommandByID builds a command token from a raw id, for ids with no name.
func CommandByID(id uint16, special uint16, params ...uint16) Token {
	return Token{kind: KindCommand, id: id, special: special, params: params}
}

// Kind reports which variant this token is.
func (t Token) Kind() TokenKind { return t.kind }

// Text returns the content of a literal or trainer-name token.
func (t Token) Text() string { return t.text }

// Name returns a command token's textual name, "" when unresolved.
func (t Token) Name() string { return t.name }

// ID returns a command token's id.
func (t Token) ID() uint16 { return t.id }

// Special returns a command token's special byte.
func (t Token) Special() uint16 { return t.special }

// Params returns a command token's parameters. The slice is shared; treat
// it as read-only.
func (t Token) Params() []uint16 { return t.params }

// Code returns a raw-code token's value.
func (t Token) Code() uint16 { return t.code }
