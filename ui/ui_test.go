package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePicks(t *testing.T) {
	picks, err := ParsePicks("3, 1 2-4", 5)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 1, 3}, picks)

	picks, err = ParsePicks("ALL", 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, picks)

	picks, err = ParsePicks("  ", 3)
	require.NoError(t, err)
	assert.Empty(t, picks)

	for _, bad := range []string{"0", "4", "x", "3-1", "1-z"} {
		_, err := ParsePicks(bad, 3)
		assert.Error(t, err, bad)
	}
}

func TestTerminalAskRepeatsUntilValid(t *testing.T) {
	out := &bytes.Buffer{}
	u := NewTerminalUIWith(out, strings.NewReader("9\n2\n"))

	idx := u.Choose("Pick one", []string{"a", "b"})

	assert.Equal(t, 1, idx)
	assert.Contains(t, out.String(), "please enter a number between 1 and 2")
}

func TestTerminalChooseMany(t *testing.T) {
	u := NewTerminalUIWith(&bytes.Buffer{}, strings.NewReader("1-2\n"))
	assert.Equal(t, []int{0, 1}, u.ChooseMany("Badges", []string{"a", "b", "c"}))
}

func TestTerminalConfirmDefault(t *testing.T) {
	u := NewTerminalUIWith(&bytes.Buffer{}, strings.NewReader("\nn\n"))
	assert.True(t, u.Confirm("Go?", true))
	assert.False(t, u.Confirm("Go?", true))
}

func TestTerminalIndentAndSection(t *testing.T) {
	out := &bytes.Buffer{}
	u := NewTerminalUIWith(out, strings.NewReader(""))
	u.Indent().Info("nested\nlines")
	u.Section("2024")

	lines := strings.Split(out.String(), "\n")
	assert.Equal(t, "  nested", lines[0])
	assert.Equal(t, "  lines", lines[1])
	assert.Contains(t, out.String(), "= 2024 =")
}

func TestRenderTableAlignsWideRunes(t *testing.T) {
	lines := renderTable([]string{"ID", "Event"}, [][][]string{
		{{"1", "🎉 party"}},
		{{"22", "meetup"}},
	}, false)

	require.Len(t, lines, 7)
	for _, l := range lines {
		assert.Equal(t, visibleWidth(lines[0]), visibleWidth(l), l)
	}
	assert.True(t, strings.HasPrefix(lines[4], "├"))
}

func TestRecordingUI(t *testing.T) {
	r := NewRecordingUI("2", "y", "1,3")
	r.Info("hello %s", "world")
	assert.Equal(t, 1, r.Choose("which", []string{"a", "b"}))
	assert.True(t, r.Indent().Confirm("sure?", false))
	assert.Equal(t, []int{0, 2}, r.ChooseMany("some", []string{"a", "b", "c"}))
	r.Table([]string{"k", "v"}, [][]string{{"a", "1"}})

	assert.Equal(t, []string{"hello world"}, r.Messages("Info"))
	assert.Equal(t, []string{"a | 1"}, r.Messages("Row"))
	assert.True(t, r.HasMessage("HELLO"))
	assert.Contains(t, r.Output(), "│ a │ 1 │")
	assert.Panics(t, func() { r.Ask(nil) })
}
