package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/lu-zhengda/tagside/internal/sidebar"
)

// toggleSubtagsMsg asks the root model to collapse or expand a tag.
type toggleSubtagsMsg struct {
	tagID int64
}

// toggleOrganizeMsg asks the root model to flip organize mode.
type toggleOrganizeMsg struct{}

// reorderMsg carries the new sibling order after a move.
type reorderMsg struct {
	ids []int64
}

type hintMsg struct {
	text string
}

type section int

const (
	sectionPriority section = iota
	sectionRegular
)

// item is one visible line: a top-level row or an expanded subtag.
type item struct {
	row      sidebar.Row
	section  section
	parentID int64
}

// sidebarModel displays the navigable tag rows.
type sidebarModel struct {
	priority   []sidebar.Row
	regular    []sidebar.Row
	items      []item
	cursor     int
	organizing bool
	titles     [2]string
	width      int
	height     int
}

func newSidebar(priorityTitle, tagsTitle string) sidebarModel {
	return sidebarModel{titles: [2]string{priorityTitle, tagsTitle}}
}

// SetRows replaces the rows and keeps the cursor on the same tag when it is
// still visible.
func (s *sidebarModel) SetRows(priority, regular []sidebar.Row, organizing bool) {
	var selected int64
	if it, ok := s.current(); ok {
		selected = it.row.ID
	}

	s.priority = priority
	s.regular = regular
	s.organizing = organizing
	s.items = append(flatten(sectionPriority, priority), flatten(sectionRegular, regular)...)

	s.cursor = min(s.cursor, max(len(s.items)-1, 0))
	for i, it := range s.items {
		if it.row.ID == selected {
			s.cursor = i
			break
		}
	}
}

// SetSize updates the sidebar dimensions.
func (s *sidebarModel) SetSize(w, h int) {
	s.width = w
	s.height = h
}

func flatten(sec section, rows []sidebar.Row) []item {
	var out []item
	for _, r := range rows {
		if r.Hidden {
			continue
		}
		out = append(out, item{row: r, section: sec})
		if r.Collapsible && !r.Collapsed {
			for _, sub := range r.Subtags {
				out = append(out, item{row: sub, section: sec, parentID: r.ID})
			}
		}
	}
	return out
}

func (s sidebarModel) current() (item, bool) {
	if s.cursor < 0 || s.cursor >= len(s.items) {
		return item{}, false
	}
	return s.items[s.cursor], true
}

// siblings returns the rows an item can be reordered among, hidden ones
// included so their positions are kept.
func (s sidebarModel) siblings(it item) []sidebar.Row {
	rows := s.priority
	if it.section == sectionRegular {
		rows = s.regular
	}
	if it.parentID == 0 {
		return rows
	}
	for _, r := range rows {
		if r.ID == it.parentID {
			return r.Subtags
		}
	}
	return nil
}

// moveIDs returns sibling IDs with id swapped with the next movable row in
// the direction of delta. Fixed rows are stepped over and keep their
// positions. It returns false when id is fixed or has nowhere to go.
func moveIDs(rows []sidebar.Row, id int64, delta int) ([]int64, bool) {
	ids := make([]int64, len(rows))
	from := -1
	for i, r := range rows {
		ids[i] = r.ID
		if r.ID == id {
			from = i
		}
	}
	if from < 0 || rows[from].Kind.Fixed() {
		return nil, false
	}
	to := from + delta
	for to >= 0 && to < len(rows) && rows[to].Kind.Fixed() {
		to += delta
	}
	if to < 0 || to >= len(ids) {
		return nil, false
	}
	ids[from], ids[to] = ids[to], ids[from]
	return ids, true
}

// Update handles key events for sidebar navigation.
func (s sidebarModel) Update(msg tea.Msg) (sidebarModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	if key.Matches(keyMsg, keys.Organize) {
		return s, func() tea.Msg { return toggleOrganizeMsg{} }
	}

	total := len(s.items)
	if total == 0 {
		return s, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Up):
		s.cursor--
		if s.cursor < 0 {
			s.cursor = total - 1
		}
	case key.Matches(keyMsg, keys.Down):
		s.cursor++
		if s.cursor >= total {
			s.cursor = 0
		}
	case key.Matches(keyMsg, keys.Toggle):
		it, _ := s.current()
		if !it.row.Collapsible {
			return s, nil
		}
		id := it.row.ID
		return s, func() tea.Msg { return toggleSubtagsMsg{tagID: id} }
	case key.Matches(keyMsg, keys.MoveUp), key.Matches(keyMsg, keys.MoveDown):
		if !s.organizing {
			return s, func() tea.Msg { return hintMsg{text: "Press o to organize"} }
		}
		it, _ := s.current()
		if it.row.Kind.Fixed() {
			return s, func() tea.Msg { return hintMsg{text: it.row.Name + " cannot be moved"} }
		}
		delta := 1
		if key.Matches(keyMsg, keys.MoveUp) {
			delta = -1
		}
		ids, ok := moveIDs(s.siblings(it), it.row.ID, delta)
		if !ok {
			return s, nil
		}
		return s, func() tea.Msg { return reorderMsg{ids: ids} }
	}

	return s, nil
}

// View renders the sidebar.
func (s sidebarModel) View() string {
	var b strings.Builder

	if len(s.items) == 0 {
		b.WriteString(mutedTextStyle.Render("No tags"))
		return b.String()
	}

	last := section(-1)
	for i, it := range s.items {
		if it.section != last {
			if last != -1 {
				b.WriteString("\n")
			}
			b.WriteString(titleStyle.Render(s.titles[it.section]))
			b.WriteString("\n")
			last = it.section
		}
		b.WriteString(s.renderLine(it, i))
		b.WriteString("\n")
	}

	return b.String()
}

// renderLine renders a single row with cursor highlighting and active marker.
func (s sidebarModel) renderLine(it item, idx int) string {
	r := it.row
	prefix := "  "
	if r.Active {
		prefix = "▶ "
	}
	if it.parentID != 0 {
		prefix += "  "
	}

	toggle := " "
	if r.Collapsible {
		toggle = "▾"
		if r.Collapsed {
			toggle = "▸"
		}
	}
	if s.organizing && !r.Kind.Fixed() {
		toggle = handleStyle.Render("≡")
	}

	head := fmt.Sprintf("%s%s %s ", prefix, toggle, swatch(r.Color))
	right := badgeStyle.Render(r.Badge)

	width := max(s.width, 10)
	room := max(width-lipgloss.Width(head)-lipgloss.Width(right)-1, 1)
	left := head + truncate.StringWithTail(r.Name, uint(room), "…")
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + right

	// Pad to width so highlight covers the full line.
	padded := lipgloss.NewStyle().Width(width).Render(line)
	if idx == s.cursor {
		return selectedStyle.Render(padded)
	}
	return padded
}
