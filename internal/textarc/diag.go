package textarc

import "fmt"

// Severity grades a Diagnostic.
type Severity string

const (
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// DiagCode identifies what went wrong, stable across surfaces.
type DiagCode string

const (
	// DiagCorruptEntry: a table entry's offset/length falls outside the
	// stream; the table walk stops at it.
	DiagCorruptEntry DiagCode = "CORRUPT_ENTRY"
	// DiagResidualData: unconsumed codes (or an odd byte) trail the bodies.
	DiagResidualData DiagCode = "RESIDUAL_DATA"
	// DiagUnmappedText: a fragment has no code; a null code took its place.
	DiagUnmappedText DiagCode = "UNMAPPED_TEXT"
	// DiagUnknownCommand: a command name resolved to nothing; the whole
	// command collapsed to a null code.
	DiagUnknownCommand DiagCode = "UNKNOWN_COMMAND"
	// DiagTruncatedCommand: the code stream ends inside a command.
	DiagTruncatedCommand DiagCode = "TRUNCATED_COMMAND"
	// DiagNameOverflow: a trainer-name character does not fit in 9 bits.
	DiagNameOverflow DiagCode = "NAME_OVERFLOW"
	// DiagUnterminatedName: a packed trainer name ran out of codes before
	// its terminator.
	DiagUnterminatedName DiagCode = "UNTERMINATED_NAME"
	// DiagBadSyntax: malformed brace/bracket syntax in message text.
	DiagBadSyntax DiagCode = "BAD_SYNTAX"
)

// Diagnostic records one recoverable problem found while decoding or
// encoding. Message is the 0-based message index, or -1 for archive-level
// findings.
type Diagnostic struct {
	Message  int      `json:"message"`
	Severity Severity `json:"severity"`
	Code     DiagCode `json:"code"`
	Detail   string   `json:"detail"`
}

func (d Diagnostic) String() string {
	if d.Message < 0 {
		return fmt.Sprintf("%s %s: %s", d.Severity, d.Code, d.Detail)
	}
	return fmt.Sprintf("%s %s: message %d: %s", d.Severity, d.Code, d.Message, d.Detail)
}

func errDiag(code DiagCode, format string, args ...any) Diagnostic {
	return Diagnostic{Message: -1, Severity: SeverityError, Code: code, Detail: fmt.Sprintf(format, args...)}
}

func warnDiag(code DiagCode, format string, args ...any) Diagnostic {
	return Diagnostic{Message: -1, Severity: SeverityWarn, Code: code, Detail: fmt.Sprintf(format, args...)}
}

// tagDiags stamps a message index onto diagnostics produced by the
// message-level helpers, which do not know their archive position.
func tagDiags(diags []Diagnostic, msg int) []Diagnostic {
	for i := range diags {
		diags[i].Message = msg
	}
	return diags
}

// CountErrors reports how many diagnostics are errors rather than warnings.
func CountErrors(diags []Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}
