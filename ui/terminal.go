package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/logrusorgru/aurora"
	indent "github.com/openconfig/goyang/pkg/indent"
	"golang.org/x/term"
)

const (
	indentUnit   = "  "
	sectionWidth = 60
	promptMark   = "> "
	interpreted  = "→ "
)

// TerminalUI writes to stdout and reads answers from stdin. Colours are on
// only when stdout is a terminal.
type TerminalUI struct {
	level int
	out   io.Writer
	in    *bufio.Reader
	au    aurora.Aurora
	tty   bool
}

func NewTerminalUI() *TerminalUI {
	tty := term.IsTerminal(int(os.Stdout.Fd()))
	return &TerminalUI{
		out: os.Stdout,
		in:  bufio.NewReader(os.Stdin),
		au:  aurora.NewAurora(tty),
		tty: tty,
	}
}

// NewTerminalUIWith is a TerminalUI on arbitrary streams, without colours.
func NewTerminalUIWith(out io.Writer, in io.Reader) *TerminalUI {
	return &TerminalUI{
		out: out,
		in:  bufio.NewReader(in),
		au:  aurora.NewAurora(false),
	}
}

func (u *TerminalUI) prefix() string {
	return strings.Repeat(indentUnit, u.level)
}

func (u *TerminalUI) line(s string) {
	fmt.Fprintf(u.out, "%s%s\n", u.prefix(), s)
}

func (u *TerminalUI) Style(t StyledText) string {
	switch t.Severity {
	case SeveritySuccess:
		return u.au.Green(t.Text).String()
	case SeverityWarn:
		return u.au.Yellow(t.Text).String()
	case SeverityError:
		return u.au.Red(t.Text).String()
	case SeverityCritical:
		return u.au.Bold(t.Text).String()
	}
	return t.Text
}

func (u *TerminalUI) styled(sev Severity, format string, args []any) {
	for _, l := range strings.Split(fmt.Sprintf(format, args...), "\n") {
		u.line(u.Style(StyledText{Text: l, Severity: sev}))
	}
}

func (u *TerminalUI) Info(format string, args ...any)     { u.styled(SeverityInfo, format, args) }
func (u *TerminalUI) Success(format string, args ...any)  { u.styled(SeveritySuccess, format, args) }
func (u *TerminalUI) Warn(format string, args ...any)     { u.styled(SeverityWarn, format, args) }
func (u *TerminalUI) Error(format string, args ...any)    { u.styled(SeverityError, format, args) }
func (u *TerminalUI) Critical(format string, args ...any) { u.styled(SeverityCritical, format, args) }

func (u *TerminalUI) Section(title string) {
	fmt.Fprintf(u.out, "\n%s%s\n\n", u.prefix(), sectionLine(title))
}

func sectionLine(title string) string {
	title = " " + title + " "
	bars := max(sectionWidth-len(title), 6)
	return strings.Repeat("=", bars/2) + title + strings.Repeat("=", bars-bars/2)
}

func (u *TerminalUI) Interpret(value string) {
	u.line(indentUnit + interpreted + u.au.Cyan(value).String())
}

func (u *TerminalUI) Ask(validate func(string) error) string {
	for {
		fmt.Fprintf(u.out, "%s%s", u.prefix(), promptMark)
		text, err := u.in.ReadString('\n')
		answer := strings.TrimRight(text, "\r\n")
		if validate == nil {
			return answer
		}
		verr := validate(answer)
		if verr == nil {
			return answer
		}
		u.Error("%s", verr)
		if err == io.EOF {
			// nobody left to correct the answer
			return answer
		}
	}
}

func (u *TerminalUI) Confirm(prompt string, defaultYes bool) bool {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	u.Info("%s %s", prompt, hint)
	answer := strings.ToLower(strings.TrimSpace(u.Ask(func(s string) error {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "", "y", "yes", "n", "no":
			return nil
		}
		return fmt.Errorf("please answer y or n")
	})))
	if answer == "" {
		return defaultYes
	}
	return answer == "y" || answer == "yes"
}

func (u *TerminalUI) listOptions(options []string) {
	width := len(strconv.Itoa(len(options)))
	for i, opt := range options {
		u.Info("%*d. %s", width, i+1, opt)
	}
}

func (u *TerminalUI) Choose(prompt string, options []string) int {
	u.listOptions(options)
	u.Info("%s [1-%d]", prompt, len(options))
	answer := u.Ask(func(s string) error {
		i, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || i < 1 || i > len(options) {
			return fmt.Errorf("please enter a number between 1 and %d", len(options))
		}
		return nil
	})
	i, _ := strconv.Atoi(strings.TrimSpace(answer))
	return i - 1
}

func (u *TerminalUI) ChooseMany(prompt string, options []string) []int {
	u.listOptions(options)
	u.Info("%s (e.g. 1,3 5-7 or all)", prompt)
	var picks []int
	u.Ask(func(s string) error {
		var err error
		picks, err = ParsePicks(s, len(options))
		return err
	})
	return picks
}

func (u *TerminalUI) KeyValue(rows [][2]string) {
	width := 0
	for _, r := range rows {
		width = max(width, len(r[0]))
	}
	for _, r := range rows {
		u.line(fmt.Sprintf("%-*s  %s", width, r[0], r[1]))
	}
}

func (u *TerminalUI) Table(headers []string, rows [][]string) {
	u.TableWithGroups(headers, [][][]string{rows})
}

func (u *TerminalUI) TableWithGroups(headers []string, groups [][][]string) {
	if len(groups) == 0 {
		return
	}
	for _, l := range renderTable(headers, groups, u.tty) {
		u.line(l)
	}
}

func (u *TerminalUI) Spinner(msg string) func() {
	if !u.tty {
		u.line(msg)
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 80*time.Millisecond, spinner.WithWriter(u.out))
	s.Prefix = u.prefix()
	s.Suffix = " " + msg
	s.Start()
	return func() {
		s.Stop()
		// Stop leaves the cursor on the cleared line
		fmt.Fprintln(u.out)
	}
}

func (u *TerminalUI) Indent() UI {
	child := *u
	child.level++
	return &child
}

func (u *TerminalUI) Writer() io.Writer {
	if u.level == 0 {
		return u.out
	}
	return indent.NewWriter(u.out, u.prefix())
}
