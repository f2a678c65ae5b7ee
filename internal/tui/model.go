// Package tui is the interactive scope browser: a bubbletea program that
// renders one track's tree with expand/collapse, live search and progress
// edits that are written through to storage.
package tui

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/trackscope/internal/contract"
	"github.com/alexanderramin/trackscope/internal/domain"
	"github.com/alexanderramin/trackscope/internal/service"
	"github.com/alexanderramin/trackscope/internal/tree"
)

// progressStep is how much +/- moves a node's progress.
const progressStep = 5

// Services are the use cases the browser calls.
type Services struct {
	Scope    service.ScopeService
	Progress service.ProgressService
}

type treeLoadedMsg struct {
	roots    []*tree.Node
	progress *contract.TrackProgress
	err      error
}

type statusMsg struct {
	text string
	err  bool
}

// Model is the scope browser.
type Model struct {
	ctx    context.Context
	svcs   Services
	track  *domain.Track
	copyFn func(string) error

	roots    []*tree.Node
	rows     []tree.Row
	progress *contract.TrackProgress
	expand   *tree.ExpandState

	cursor     int
	offset     int
	selectedID string

	search    textinput.Model
	searching bool
	query     string

	help       help.Model
	width      int
	height     int
	loading    bool
	message    string
	messageErr bool
}

// New creates a browser for track. Nothing is loaded until Init runs.
func New(ctx context.Context, svcs Services, track *domain.Track) *Model {
	input := textinput.New()
	input.Placeholder = "code, title or text"
	input.Prompt = "/ "

	return &Model{
		ctx:     ctx,
		svcs:    svcs,
		track:   track,
		copyFn:  clipboard.WriteAll,
		expand:  tree.NewExpandState(),
		search:  input,
		help:    help.New(),
		loading: true,
		height:  24,
	}
}

// Run starts the browser on the alternate screen and blocks until it quits.
func Run(ctx context.Context, svcs Services, track *domain.Track) error {
	p := tea.NewProgram(New(ctx, svcs, track), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return m.load()
}

// load fetches the forest and the track's roll-up together so the header
// never shows a stale overall after an edit.
func (m *Model) load() tea.Cmd {
	ctx, svcs, trackID := m.ctx, m.svcs, m.track.ID
	return func() tea.Msg {
		roots, err := svcs.Scope.Tree(ctx, trackID)
		if err != nil {
			return treeLoadedMsg{err: err}
		}
		tp, err := svcs.Progress.TrackProgress(ctx, trackID, "")
		if err != nil {
			return treeLoadedMsg{err: err}
		}
		return treeLoadedMsg{roots: roots, progress: tp}
	}
}

func (m *Model) setProgress(n *domain.ScopeNode, delta float64) tea.Cmd {
	next := n.Progress + delta
	if next < 0 {
		next = 0
	}
	if next > 100 {
		next = 100
	}
	if next == n.Progress {
		return nil
	}
	ctx, scope, id := m.ctx, m.svcs.Scope, n.ID
	reload := m.load()
	return func() tea.Msg {
		if _, err := scope.SetProgress(ctx, id, service.SetProgressRequest{Progress: next}); err != nil {
			return statusMsg{text: err.Error(), err: true}
		}
		return reload()
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.clampCursor()
		return m, nil

	case treeLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.setMessage(msg.err.Error(), true)
			return m, nil
		}
		m.roots = msg.roots
		m.progress = msg.progress
		m.refreshRows()
		return m, nil

	case statusMsg:
		m.setMessage(msg.text, msg.err)
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.query = ""
		m.refreshRows()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != m.query {
		m.query = q
		m.cursor = 0
		m.refreshRows()
	}
	return m, cmd
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, Keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, Keys.Expand):
		if row, ok := m.current(); ok && row.HasChildren() && m.query == "" {
			m.expand.Toggle(row.Node.Scope.ID)
			m.refreshRows()
		}

	case key.Matches(msg, Keys.Collapse):
		m.collapse()

	case key.Matches(msg, Keys.ExpandAll):
		m.expand.ExpandAll(m.roots)
		m.refreshRows()

	case key.Matches(msg, Keys.CollapseAll):
		m.expand.CollapseAll()
		m.refreshRows()

	case key.Matches(msg, Keys.Search):
		m.searching = true
		m.search.SetValue(m.query)
		return m, m.search.Focus()

	case key.Matches(msg, Keys.Clear):
		if m.query != "" {
			m.query = ""
			m.search.SetValue("")
			m.refreshRows()
		}

	case key.Matches(msg, Keys.Increase):
		if row, ok := m.current(); ok {
			return m, m.setProgress(row.Node.Scope, progressStep)
		}

	case key.Matches(msg, Keys.Decrease):
		if row, ok := m.current(); ok {
			return m, m.setProgress(row.Node.Scope, -progressStep)
		}

	case key.Matches(msg, Keys.Copy):
		if row, ok := m.current(); ok {
			if err := m.copyFn(row.Node.Scope.Code); err != nil {
				m.setMessage(fmt.Sprintf("copy failed: %v", err), true)
			} else {
				m.setMessage(fmt.Sprintf("copied %s", row.Node.Scope.Code), false)
			}
		}

	case key.Matches(msg, Keys.Refresh):
		m.loading = true
		return m, m.load()
	}

	m.rememberSelection()
	return m, nil
}

// collapse closes the current node, or moves to its parent when the node is
// already closed or has no children.
func (m *Model) collapse() {
	row, ok := m.current()
	if !ok {
		return
	}
	if row.Expanded && m.query == "" {
		m.expand.Collapse(row.Node.Scope.ID)
		m.refreshRows()
		return
	}
	for i := m.cursor - 1; i >= 0; i-- {
		if m.rows[i].Depth == row.Depth-1 {
			m.cursor = i
			return
		}
	}
}

// refreshRows re-flattens the forest and keeps the cursor on the previously
// selected node when it is still visible.
func (m *Model) refreshRows() {
	if m.query != "" {
		m.rows = tree.Flatten(tree.Filter(m.roots, m.query), nil)
	} else {
		m.rows = tree.Flatten(m.roots, m.expand.IsExpanded)
	}
	if m.selectedID != "" {
		for i, r := range m.rows {
			if r.Node.Scope.ID == m.selectedID {
				m.cursor = i
				break
			}
		}
	}
	m.clampCursor()
	m.rememberSelection()
}

func (m *Model) rememberSelection() {
	if row, ok := m.current(); ok {
		m.selectedID = row.Node.Scope.ID
	}
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) current() (tree.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return tree.Row{}, false
	}
	return m.rows[m.cursor], true
}

func (m *Model) setMessage(text string, isErr bool) {
	m.message = text
	m.messageErr = isErr
}
