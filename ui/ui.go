// Package ui is the terminal surface of the poap commands: styled output,
// prompts and tables, with a recording implementation for tests.
package ui

import (
	"encoding/json"
	"io"
)

type Severity uint8

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarn
	SeverityError
	SeverityCritical
)

// StyledText is a value with a visual weight. It marshals to JSON as its
// plain text.
type StyledText struct {
	Text     string
	Severity Severity
}

func (s StyledText) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Text)
}

func Plain(text string) StyledText   { return StyledText{Text: text} }
func Good(text string) StyledText    { return StyledText{Text: text, Severity: SeveritySuccess} }
func Bad(text string) StyledText     { return StyledText{Text: text, Severity: SeverityError} }
func Careful(text string) StyledText { return StyledText{Text: text, Severity: SeverityWarn} }

// UI is everything a command prints or asks. TerminalUI talks to the
// user, RecordingUI replays scripted answers and keeps what was printed.
//
// Indent returns a child sharing the parent's input and output so nested
// prompts keep their order:
//
//	u.Info("Recipient (address or ENS name)")
//	to := u.Ask(nil)
//	u.Interpret("friend.eth (0x1234...abcd)")
type UI interface {
	// Style colours t by severity. Plain text when colours are off.
	Style(t StyledText) string

	Info(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	// Error prints only, the caller decides whether to stop.
	Error(format string, args ...any)
	// Critical is for what the user must read before signing, and for the
	// proof of what was broadcast.
	Critical(format string, args ...any)

	// Section prints "===== title =====" between blank lines.
	Section(title string)
	// KeyValue prints label/value pairs with aligned values.
	KeyValue(rows [][2]string)
	Table(headers []string, rows [][]string)
	// TableWithGroups separates each group of rows with a divider, the
	// badge listing uses one group per year.
	TableWithGroups(headers []string, groups [][][]string)

	// Spinner shows msg until the returned stop function is called.
	Spinner(msg string) func()

	// Interpret echoes how the last answer was understood, prefixed "→".
	Interpret(value string)

	// Ask reads a line, asking again until validate accepts it. nil
	// accepts anything.
	Ask(validate func(string) error) string
	Confirm(prompt string, defaultYes bool) bool
	// Choose returns the 0-based index of one option.
	Choose(prompt string, options []string) int
	// ChooseMany returns the 0-based indexes picked from options, in the
	// order given. "all" picks every option, an empty answer none.
	ChooseMany(prompt string, options []string) []int

	Indent() UI
	// Writer indents every line written to it.
	Writer() io.Writer
}
