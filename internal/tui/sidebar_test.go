package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lu-zhengda/tagside/internal/sidebar"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testRows() (priority, regular []sidebar.Row) {
	priority = []sidebar.Row{
		{ID: 1, Name: "Inbox", Kind: sidebar.RowDraggable, Color: "#4a90d9", Badge: "3"},
		{ID: 2, Name: "Drafts", Kind: sidebar.RowDrafts, Color: "#8d8d8d"},
		{ID: 3, Name: "Outbox", Kind: sidebar.RowOutbox, Hidden: true},
	}
	regular = []sidebar.Row{
		{ID: 7, Name: "Work", Kind: sidebar.RowDraggable, Collapsible: true, Subtags: []sidebar.Row{
			{ID: 8, Name: "Projects", Subtag: true},
			{ID: 9, Name: "Clients", Subtag: true},
		}},
		{ID: 10, Name: "Home", Kind: sidebar.RowDraggable, Collapsible: true, Collapsed: true, Subtags: []sidebar.Row{
			{ID: 11, Name: "Bills", Subtag: true},
		}},
	}
	return priority, regular
}

func setTestRows(s *sidebarModel, organizing bool) {
	priority, regular := testRows()
	s.SetRows(priority, regular, organizing)
}

func itemIDs(s sidebarModel) []int64 {
	var ids []int64
	for _, it := range s.items {
		ids = append(ids, it.row.ID)
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSetRows_Flatten(t *testing.T) {
	s := newSidebar("Priority", "Tags")
	setTestRows(&s, false)

	want := []int64{1, 2, 7, 8, 9, 10}
	if got := itemIDs(s); !equalIDs(got, want) {
		t.Errorf("items = %v, want %v (hidden and collapsed rows skipped)", got, want)
	}
}

func TestSetRows_KeepsCursorOnTag(t *testing.T) {
	s := newSidebar("Priority", "Tags")
	setTestRows(&s, false)
	s.cursor = 5 // Home

	priority, regular := testRows()
	regular[0].Collapsed = true
	s.SetRows(priority, regular, false)

	if it, _ := s.current(); it.row.ID != 10 {
		t.Errorf("cursor on %d, want 10", it.row.ID)
	}
}

func TestSidebarUpdate_Navigation(t *testing.T) {
	s := newSidebar("Priority", "Tags")
	setTestRows(&s, false)

	s, _ = s.Update(runeKey("k"))
	if s.cursor != len(s.items)-1 {
		t.Errorf("cursor = %d, want wrap to %d", s.cursor, len(s.items)-1)
	}
	s, _ = s.Update(runeKey("j"))
	if s.cursor != 0 {
		t.Errorf("cursor = %d, want wrap to 0", s.cursor)
	}
}

func TestSidebarUpdate_Toggle(t *testing.T) {
	s := newSidebar("Priority", "Tags")
	setTestRows(&s, false)

	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if cmd != nil {
		t.Error("toggling a row without subtags should do nothing")
	}

	s.cursor = 2 // Work
	_, cmd = s.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if cmd == nil {
		t.Fatal("expected a toggle command")
	}
	msg, ok := cmd().(toggleSubtagsMsg)
	if !ok || msg.tagID != 7 {
		t.Errorf("cmd() = %#v, want toggleSubtagsMsg{7}", msg)
	}
}

func TestSidebarUpdate_Move(t *testing.T) {
	priority, regular := testRows()
	s := newSidebar("Priority", "Tags")
	s.SetRows(priority, regular, false)
	s.cursor = 2 // Work

	_, cmd := s.Update(runeKey("J"))
	if _, ok := cmd().(hintMsg); !ok {
		t.Error("moving outside organize mode should produce a hint")
	}

	s.SetRows(priority, regular, true)
	_, cmd = s.Update(runeKey("J"))
	msg, ok := cmd().(reorderMsg)
	if !ok || !equalIDs(msg.ids, []int64{10, 7}) {
		t.Errorf("cmd() = %#v, want reorder [10 7]", msg)
	}

	s.cursor = 4 // Clients, a subtag of Work
	_, cmd = s.Update(runeKey("K"))
	msg, ok = cmd().(reorderMsg)
	if !ok || !equalIDs(msg.ids, []int64{9, 8}) {
		t.Errorf("cmd() = %#v, want reorder [9 8]", msg)
	}

	s.cursor = 1 // Drafts
	_, cmd = s.Update(runeKey("K"))
	if _, ok := cmd().(hintMsg); !ok {
		t.Error("fixed rows should not move")
	}

	s.cursor = 0 // Inbox, already first
	if _, cmd = s.Update(runeKey("K")); cmd != nil {
		t.Error("moving the first row up should do nothing")
	}
}

func TestMoveIDs_StepsOverFixedRows(t *testing.T) {
	rows := []sidebar.Row{
		{ID: 1, Name: "Inbox"},
		{ID: 2, Name: "Drafts", Kind: sidebar.RowDrafts},
		{ID: 3, Name: "Outbox", Kind: sidebar.RowOutbox, Hidden: true},
		{ID: 4, Name: "Sent"},
	}
	tests := []struct {
		name  string
		id    int64
		delta int
		want  []int64
		ok    bool
	}{
		{"up over drafts and hidden outbox", 4, -1, []int64{4, 2, 3, 1}, true},
		{"down over fixed rows", 1, 1, []int64{4, 2, 3, 1}, true},
		{"fixed row itself", 2, 1, nil, false},
		{"nothing movable above", 1, -1, nil, false},
		{"nothing movable below", 4, 1, nil, false},
		{"unknown id", 99, 1, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, ok := moveIDs(rows, tt.id, tt.delta)
			if ok != tt.ok || !equalIDs(ids, tt.want) {
				t.Errorf("moveIDs() = %v, %v, want %v, %v", ids, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSidebarUpdate_MoveKeepsFixedRows(t *testing.T) {
	s := newSidebar("Priority", "Tags")
	s.SetRows([]sidebar.Row{
		{ID: 1, Name: "Inbox"},
		{ID: 2, Name: "Drafts", Kind: sidebar.RowDrafts},
		{ID: 3, Name: "Work"},
	}, nil, true)
	s.cursor = 2 // Work

	_, cmd := s.Update(runeKey("K"))
	msg, ok := cmd().(reorderMsg)
	if !ok || !equalIDs(msg.ids, []int64{3, 2, 1}) {
		t.Errorf("cmd() = %#v, want reorder [3 2 1] with drafts in place", msg)
	}
}

func TestSidebarView(t *testing.T) {
	s := newSidebar("Wichtig", "Tags")
	s.SetSize(30, 20)
	setTestRows(&s, false)

	view := s.View()
	for _, want := range []string{"Wichtig", "Tags", "Inbox", "Projects", "Home", "▾", "▸"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
	if strings.Contains(view, "Outbox") || strings.Contains(view, "Bills") {
		t.Error("View() shows hidden or collapsed rows")
	}
}

func TestRenderLine_TruncatesLongNames(t *testing.T) {
	s := newSidebar("Priority", "Tags")
	s.SetSize(16, 10)
	s.SetRows(nil, []sidebar.Row{{ID: 1, Name: "A very long tag name indeed", Badge: "12"}}, false)

	line := s.renderLine(s.items[0], 1)
	if !strings.Contains(line, "…") {
		t.Errorf("renderLine() = %q, want truncated name", line)
	}
	if !strings.Contains(line, "12") {
		t.Errorf("renderLine() = %q, badge dropped", line)
	}
}
