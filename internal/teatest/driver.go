// Package teatest drives bubbletea models synchronously in tests: messages go
// straight into Update and every returned Cmd is run and fed back until the
// model settles, so no tea.Program or goroutine scheduling is involved.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

// maxDepth bounds how many chained Cmds one Send may run.
const maxDepth = 100

// cmdTimeout separates store-backed Cmds, which finish in milliseconds, from
// cursor blink Cmds that sleep on a ~500ms timer.
const cmdTimeout = 200 * time.Millisecond

// Driver owns the model under test.
type Driver struct {
	t     *testing.T
	model tea.Model

	// Quitting is set once a tea.QuitMsg comes out of a Cmd.
	Quitting bool
}

// New wraps model. Init is not run until Start.
func New(t *testing.T, model tea.Model) *Driver {
	t.Helper()
	return &Driver{t: t, model: model}
}

// Start sends an initial window size, then runs Init to completion.
func (d *Driver) Start(width, height int) *Driver {
	d.t.Helper()
	d.model, _ = d.model.Update(tea.WindowSizeMsg{Width: width, Height: height})
	d.drain(d.model.Init(), 0)
	return d
}

// Model returns the current model.
func (d *Driver) Model() tea.Model {
	return d.model
}

// Send runs msg through Update and drains the resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.t.Helper()
	if d.Quitting {
		return
	}
	var cmd tea.Cmd
	d.model, cmd = d.model.Update(msg)
	d.drain(cmd, 0)
}

// Keys sends each space-separated key name: "enter", "esc", "up", "down",
// "ctrl+c", or literal runes such as "j" or "+".
func (d *Driver) Keys(keys string) {
	d.t.Helper()
	for _, k := range strings.Fields(keys) {
		d.Send(keyMsg(k))
	}
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.t.Helper()
	for _, r := range s {
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// View renders the current model.
func (d *Driver) View() string {
	return d.model.View()
}

// RequireView fails the test unless the rendered view contains want.
func (d *Driver) RequireView(want string) {
	d.t.Helper()
	require.Contains(d.t, d.View(), want)
}

func keyMsg(name string) tea.KeyMsg {
	switch name {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
	}
}

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.t.Helper()
	if cmd == nil {
		return
	}
	if depth >= maxDepth {
		d.t.Logf("teatest: drain depth limit (%d) reached", maxDepth)
		return
	}

	msg := runWithTimeout(cmd)
	if msg == nil || isBlink(msg) {
		return
	}

	switch m := msg.(type) {
	case tea.BatchMsg:
		for _, sub := range m {
			d.drain(sub, depth+1)
		}
		return
	case tea.QuitMsg:
		d.Quitting = true
		return
	}

	var next tea.Cmd
	d.model, next = d.model.Update(msg)
	d.drain(next, depth+1)
}

// runWithTimeout returns nil for a Cmd that does not finish in cmdTimeout.
func runWithTimeout(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

// isBlink matches the unexported cursor blink messages of bubbles/cursor.
func isBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
