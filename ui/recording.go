package ui

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Entry is one recorded UI call.
type Entry struct {
	Method string
	Value  string
}

type recording struct {
	entries []Entry
	answers []string
	next    int
	buf     bytes.Buffer
}

// RecordingUI is the UI used by command tests. Answers are served in order
// to Ask, Confirm, Choose and ChooseMany; running out of answers or giving
// one that fails validation panics, since the test script is wrong.
// Children from Indent share the log and the answer queue.
type RecordingUI struct {
	rec   *recording
	level int
}

func NewRecordingUI(answers ...string) *RecordingUI {
	return &RecordingUI{rec: &recording{answers: answers}}
}

func (r *RecordingUI) add(method, value string) {
	r.rec.entries = append(r.rec.entries, Entry{Method: method, Value: value})
}

func (r *RecordingUI) answer(method string) string {
	if r.rec.next >= len(r.rec.answers) {
		panic(fmt.Sprintf("RecordingUI: %s has no scripted answer left (%d used)", method, r.rec.next))
	}
	a := r.rec.answers[r.rec.next]
	r.rec.next++
	r.add(method+"Answer", a)
	return a
}

func (r *RecordingUI) Style(t StyledText) string { return t.Text }

func (r *RecordingUI) Info(format string, args ...any) {
	r.add("Info", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Success(format string, args ...any) {
	r.add("Success", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Warn(format string, args ...any) {
	r.add("Warn", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Error(format string, args ...any) {
	r.add("Error", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Critical(format string, args ...any) {
	r.add("Critical", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Section(title string)   { r.add("Section", title) }
func (r *RecordingUI) Interpret(value string) { r.add("Interpret", value) }

func (r *RecordingUI) KeyValue(rows [][2]string) {
	for _, row := range rows {
		r.add("KeyValue", row[0]+": "+row[1])
	}
}

func (r *RecordingUI) Table(headers []string, rows [][]string) {
	r.TableWithGroups(headers, [][][]string{rows})
}

// TableWithGroups records one "Row" entry per row, cells joined by " | ",
// and writes the rendered table to Output.
func (r *RecordingUI) TableWithGroups(headers []string, groups [][][]string) {
	for _, g := range groups {
		for _, row := range g {
			r.add("Row", strings.Join(row, " | "))
		}
	}
	if len(groups) == 0 {
		return
	}
	for _, l := range renderTable(headers, groups, false) {
		fmt.Fprintln(&r.rec.buf, l)
	}
}

func (r *RecordingUI) Spinner(msg string) func() {
	r.add("Spinner", msg)
	return func() {}
}

func (r *RecordingUI) Ask(validate func(string) error) string {
	a := r.answer("Ask")
	if validate != nil {
		if err := validate(a); err != nil {
			panic(fmt.Sprintf("RecordingUI: answer %q rejected: %s", a, err))
		}
	}
	return a
}

func (r *RecordingUI) Confirm(prompt string, defaultYes bool) bool {
	r.add("Confirm", prompt)
	switch strings.ToLower(strings.TrimSpace(r.answer("Confirm"))) {
	case "":
		return defaultYes
	case "y", "yes":
		return true
	}
	return false
}

// Choose accepts a 1-based number or the option text.
func (r *RecordingUI) Choose(prompt string, options []string) int {
	r.add("Choose", prompt)
	a := strings.TrimSpace(r.answer("Choose"))
	if picks, err := ParsePicks(a, len(options)); err == nil && len(picks) == 1 {
		return picks[0]
	}
	for i, opt := range options {
		if strings.EqualFold(a, opt) {
			return i
		}
	}
	panic(fmt.Sprintf("RecordingUI: answer %q matches none of %v", a, options))
}

func (r *RecordingUI) ChooseMany(prompt string, options []string) []int {
	r.add("ChooseMany", prompt)
	a := r.answer("ChooseMany")
	picks, err := ParsePicks(a, len(options))
	if err != nil {
		panic(fmt.Sprintf("RecordingUI: answer %q rejected: %s", a, err))
	}
	return picks
}

func (r *RecordingUI) Indent() UI {
	return &RecordingUI{rec: r.rec, level: r.level + 1}
}

func (r *RecordingUI) Writer() io.Writer { return &r.rec.buf }

func (r *RecordingUI) Entries() []Entry { return r.rec.entries }

// Messages returns the values recorded for method, in order.
func (r *RecordingUI) Messages(method string) []string {
	var res []string
	for _, e := range r.rec.entries {
		if e.Method == method {
			res = append(res, e.Value)
		}
	}
	return res
}

// HasMessage reports whether any entry contains substr, ignoring case.
func (r *RecordingUI) HasMessage(substr string) bool {
	substr = strings.ToLower(substr)
	for _, e := range r.rec.entries {
		if strings.Contains(strings.ToLower(e.Value), substr) {
			return true
		}
	}
	return false
}

func (r *RecordingUI) Output() string { return r.rec.buf.String() }
