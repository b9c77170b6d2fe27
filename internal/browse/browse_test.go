package browse

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samcharles93/blorbview/internal/testutil"
	"github.com/samcharles93/blorbview/pkg/gamefile"
)

func newModel(t *testing.T) *Model {
	t.Helper()
	data := testutil.NewBlorb().
		Resource("Exec", 0, "GLUL", testutil.GlulxImage(64)).
		Resource("Pict", 4, "PNG ", []byte{1, 2, 3, 4}).
		Bytes()
	g, err := gamefile.Classify(data)
	require.NoError(t, err)
	return New("story.gblorb", g)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestOverview(t *testing.T) {
	m := newModel(t)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	assert.Contains(t, view, "story.gblorb")
	assert.Contains(t, view, "Overview")
	assert.Contains(t, view, "blorb")
	assert.Contains(t, view, "3.1.2")
	assert.Equal(t, 26, m.viewport.Height)
}

func TestTabSwitching(t *testing.T) {
	m := newModel(t)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	m.Update(key("right"))
	assert.Equal(t, tabPictures, m.active)
	assert.Contains(t, m.View(), "#4")

	m.Update(key("right"))
	assert.Equal(t, tabSounds, m.active)
	assert.Contains(t, m.View(), "No sound resources.")

	m.Update(key("left"))
	m.Update(key("left"))
	m.Update(key("left"))
	assert.Equal(t, tabStrings, m.active)

	m.Update(key("1"))
	assert.Equal(t, tabOverview, m.active)
}

func TestStringsLoad(t *testing.T) {
	m := newModel(t)
	m.Update(key("4"))
	assert.Contains(t, m.View(), "Decoding strings")

	msg := m.Init()()
	m.Update(msg)
	assert.True(t, m.stringsDone)
	require.NoError(t, m.stringsErr)
	assert.Contains(t, m.View(), "No strings found.")
}

func TestQuit(t *testing.T) {
	m := newModel(t)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
