// Package browse is an interactive terminal viewer for a loaded game.
package browse

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/samcharles93/blorbview/internal/report"
	"github.com/samcharles93/blorbview/pkg/blorb"
	"github.com/samcharles93/blorbview/pkg/gamefile"
	"github.com/samcharles93/blorbview/pkg/glulx"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB")).
			Padding(0, 1)

	activeTabStyle = tabStyle.
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type tab int

const (
	tabOverview tab = iota
	tabPictures
	tabSounds
	tabStrings
	tabCount
)

func (t tab) String() string {
	switch t {
	case tabOverview:
		return "Overview"
	case tabPictures:
		return "Pictures"
	case tabSounds:
		return "Sounds"
	case tabStrings:
		return "Strings"
	default:
		return "?"
	}
}

// chrome is the number of lines around the viewport: title, tabs, help.
const chrome = 4

type stringsLoadedMsg struct {
	strings []glulx.ParsedString
	err     error
}

// Model is the bubbletea model of the browser.
type Model struct {
	name   string
	game   gamefile.Game
	report report.Game

	strings     []glulx.ParsedString
	stringsErr  error
	stringsDone bool

	active   tab
	viewport viewport.Model
}

// New returns a browser for g. name is shown in the title bar.
func New(name string, g gamefile.Game) *Model {
	m := &Model{
		name:     name,
		game:     g,
		report:   report.Build(name, g),
		viewport: viewport.New(80, 20),
	}
	m.refresh()
	return m
}

// Run shows the browser until the user quits or ctx is cancelled.
func Run(ctx context.Context, name string, g gamefile.Game) error {
	p := tea.NewProgram(New(name, g), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return m.loadStrings
}

func (m *Model) loadStrings() tea.Msg {
	img, err := m.game.PrimaryImage()
	if err != nil {
		return stringsLoadedMsg{err: err}
	}
	return stringsLoadedMsg{strings: img.Strings()}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab", "right", "l":
			m.switchTo((m.active + 1) % tabCount)
			return m, nil
		case "shift+tab", "left", "h":
			m.switchTo((m.active + tabCount - 1) % tabCount)
			return m, nil
		case "1", "2", "3", "4":
			m.switchTo(tab(msg.String()[0] - '1'))
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chrome, 1)
		m.refresh()
		return m, nil

	case stringsLoadedMsg:
		m.strings, m.stringsErr, m.stringsDone = msg.strings, msg.err, true
		if m.active == tabStrings {
			m.refresh()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) switchTo(t tab) {
	if t == m.active {
		return
	}
	m.active = t
	m.refresh()
	m.viewport.GotoTop()
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.content())
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("blorbview " + m.name))
	b.WriteString("\n")

	tabs := make([]string, 0, tabCount)
	for t := range tabCount {
		label := fmt.Sprintf("%d %s", int(t)+1, t)
		if t == m.active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("←/→ tab • ↑/↓ scroll • q quit"))
	return b.String()
}

func (m *Model) content() string {
	switch m.active {
	case tabPictures:
		return m.resourceList(blorb.UsagePicture)
	case tabSounds:
		return m.resourceList(blorb.UsageSound)
	case tabStrings:
		return m.stringList()
	default:
		return m.overview()
	}
}

func (m *Model) overview() string {
	var b strings.Builder
	line := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-16s", label+":")), value)
	}
	r := m.report
	line("Type", r.Type)
	line("Size", fmt.Sprintf("%d bytes", r.Size))
	line("Digest", r.Digest.String())

	img := r.Image
	if c := r.Container; c != nil {
		line("Resources", fmt.Sprintf("%d", len(c.Resources)))
		if c.Frontispiece != nil {
			line("Frontispiece", fmt.Sprintf("picture %d", *c.Frontispiece))
		}
		img = c.Executable
		if c.ExecError != "" {
			line("Executable", errorStyle.Render(c.ExecError))
		}
	}
	if img != nil {
		b.WriteString("\n")
		line("Glulx version", img.Version)
		line("RAM start", fmt.Sprintf("0x%08X", img.RAMStart))
		line("Ext start", fmt.Sprintf("0x%08X", img.ExtStart))
		line("End mem", fmt.Sprintf("0x%08X", img.EndMem))
		line("Start function", fmt.Sprintf("0x%08X", img.StartFunc))
		if img.ChecksumOK {
			line("Checksum", fmt.Sprintf("0x%08X ok", img.Checksum))
		} else {
			line("Checksum", errorStyle.Render(img.ChecksumError))
		}
		if d := img.Debug; d != nil {
			line("Inform", d.InformVersion)
			line("Release", fmt.Sprintf("%d / %s", d.Release, d.Serial))
		}
	}
	return b.String()
}

func (m *Model) resourceList(u blorb.Usage) string {
	c := m.report.Container
	if c == nil {
		return helpStyle.Render("A bare Glulx image has no resources.")
	}
	var b strings.Builder
	n := 0
	for _, r := range c.Resources {
		if r.Usage != u.String() {
			continue
		}
		n++
		fmt.Fprintf(&b, "%s  %-4s %-10s %10d bytes  %s\n",
			labelStyle.Render(fmt.Sprintf("#%-5d", r.ID)), r.Tag, r.Kind, r.Length, r.Description)
	}
	if n == 0 {
		return helpStyle.Render(fmt.Sprintf("No %s resources.", u))
	}
	return b.String()
}

func (m *Model) stringList() string {
	switch {
	case !m.stringsDone:
		return helpStyle.Render("Decoding strings...")
	case m.stringsErr != nil:
		return errorStyle.Render(m.stringsErr.Error())
	case len(m.strings) == 0:
		return helpStyle.Render("No strings found.")
	}
	var b strings.Builder
	for _, s := range m.strings {
		fmt.Fprintf(&b, "%s %q\n", labelStyle.Render(fmt.Sprintf("0x%08X", s.Address)), s.Text)
	}
	return b.String()
}
