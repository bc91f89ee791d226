// Package tui is a terminal preview of the tag sidebar. It shows the same
// rows the HTML renderer produces and drives the same toggles and reorder
// operations as the web endpoints.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lu-zhengda/tagside/internal/domain"
	"github.com/lu-zhengda/tagside/internal/i18n"
	"github.com/lu-zhengda/tagside/internal/sidebar"
)

// TagService is the subset of app.TagService the preview drives.
type TagService interface {
	AccountID() string
	Sidebar(ctx context.Context, query string) ([]domain.Tag, []domain.Tag, sidebar.ViewConfig, error)
	ToggleSubtags(ctx context.Context, id int64) (bool, error)
	ToggleOrganize(ctx context.Context) (bool, error)
	Reorder(ctx context.Context, ids []int64) error
}

// --- async result messages ---

type sidebarLoadedMsg struct {
	priority   []sidebar.Row
	regular    []sidebar.Row
	organizing bool
}

type actionDoneMsg struct {
	text string
}

type errMsg struct {
	err error
}

// --- root model ---

type model struct {
	ctx      context.Context
	tags     TagService
	renderer *sidebar.Renderer

	sidebar   sidebarModel
	statusBar statusBar

	width  int
	height int
}

// NewModel creates a new root TUI model.
func NewModel(ctx context.Context, tags TagService, renderer *sidebar.Renderer, tr sidebar.Translator) model {
	title := func(s string) string { return s }
	if tr != nil {
		title = tr.T
	}
	return model{
		ctx:       ctx,
		tags:      tags,
		renderer:  renderer,
		sidebar:   newSidebar(title(i18n.MsgPriority), title(i18n.MsgTags)),
		statusBar: newStatusBar(),
	}
}

func (m model) Init() tea.Cmd {
	return m.loadSidebarCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.width = msg.Width
		m.sidebar.SetSize(m.sidebarWidth(), m.height-3)
		return m, nil

	case sidebarLoadedMsg:
		m.sidebar.SetRows(msg.priority, msg.regular, msg.organizing)
		m.statusBar.organizing = msg.organizing
		if !m.statusBar.isError {
			m.statusBar.setMessage(fmt.Sprintf("%s: %d tags", m.tags.AccountID(), len(m.sidebar.items)))
		}
		return m, nil

	case actionDoneMsg:
		m.statusBar.setMessage(msg.text)
		return m, m.loadSidebarCmd()

	case hintMsg:
		m.statusBar.setMessage(msg.text)
		return m, nil

	case errMsg:
		m.statusBar.setError(fmt.Sprintf("Error: %v", msg.err))
		return m, nil

	// --- sub-model emitted messages ---
	case toggleSubtagsMsg:
		return m, m.toggleSubtagsCmd(msg.tagID)

	case toggleOrganizeMsg:
		return m, m.toggleOrganizeCmd()

	case reorderMsg:
		return m, m.reorderCmd(msg.ids)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Reload):
			m.statusBar.setMessage("Reloading...")
			return m, m.loadSidebarCmd()
		}
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) sidebarWidth() int {
	return max(min(m.width-4, 48), 10)
}

func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	style := sidebarStyle
	if m.sidebar.organizing {
		style = organizingBorderStyle
	}
	body := style.
		Width(m.sidebarWidth()).
		Height(max(m.height-4, 1)).
		Render(m.sidebar.View())

	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusBar.View())
}

// --- commands ---

func (m model) loadSidebarCmd() tea.Cmd {
	return func() tea.Msg {
		priority, regular, cfg, err := m.tags.Sidebar(m.ctx, "")
		if err != nil {
			return errMsg{err: err}
		}
		return sidebarLoadedMsg{
			priority:   m.renderer.Rows(priority, cfg),
			regular:    m.renderer.Rows(regular, cfg),
			organizing: cfg.Organizing,
		}
	}
}

func (m model) toggleSubtagsCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		collapsed, err := m.tags.ToggleSubtags(m.ctx, id)
		if err != nil {
			return errMsg{err: err}
		}
		if collapsed {
			return actionDoneMsg{text: "Subtags hidden"}
		}
		return actionDoneMsg{text: "Subtags shown"}
	}
}

func (m model) toggleOrganizeCmd() tea.Cmd {
	return func() tea.Msg {
		on, err := m.tags.ToggleOrganize(m.ctx)
		if err != nil {
			return errMsg{err: err}
		}
		if on {
			return actionDoneMsg{text: "Organizing"}
		}
		return actionDoneMsg{text: "Done organizing"}
	}
}

func (m model) reorderCmd(ids []int64) tea.Cmd {
	return func() tea.Msg {
		if err := m.tags.Reorder(m.ctx, ids); err != nil {
			return errMsg{err: err}
		}
		return actionDoneMsg{text: "Moved"}
	}
}

// Run starts the preview for the service's account.
func Run(ctx context.Context, tags TagService, renderer *sidebar.Renderer, tr sidebar.Translator) error {
	prog := tea.NewProgram(
		NewModel(ctx, tags, renderer, tr),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := prog.Run()
	return err
}
