package sidebar

import (
	"testing"

	"github.com/lu-zhengda/tagside/internal/domain"
	"github.com/lu-zhengda/tagside/internal/theme"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		slug string
		want RowKind
	}{
		{"drafts", RowDrafts},
		{"outbox", RowOutbox},
		{"inbox", RowDraggable},
		{"Drafts", RowDraggable},
		{"", RowDraggable},
	}
	for _, tt := range tests {
		if got := KindOf(tt.slug); got != tt.want {
			t.Errorf("KindOf(%q) = %v, want %v", tt.slug, got, tt.want)
		}
	}
}

func TestUnreadCount(t *testing.T) {
	tests := []struct {
		name  string
		kind  RowKind
		stats domain.Stats
		want  int
	}{
		{"drafts uses all", RowDrafts, domain.Stats{All: 5, New: 0, SumNew: 9}, 5},
		{"outbox uses all", RowOutbox, domain.Stats{All: 2, New: 1}, 2},
		{"outbox empty", RowOutbox, domain.Stats{}, 0},
		{"sum_new wins", RowDraggable, domain.Stats{All: 10, New: 3, SumNew: 8}, 8},
		{"falls back to new", RowDraggable, domain.Stats{All: 10, New: 3}, 3},
		{"nothing unread", RowDraggable, domain.Stats{All: 10}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UnreadCount(tt.kind, tt.stats); got != tt.want {
				t.Errorf("UnreadCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSubtagUnreadCount_IgnoresAggregates(t *testing.T) {
	if got := SubtagUnreadCount(domain.Stats{All: 4, New: 1, SumNew: 6}); got != 1 {
		t.Errorf("SubtagUnreadCount() = %d, want 1", got)
	}
}

func TestRows(t *testing.T) {
	r := newTestRenderer(t, Options{})
	tags := []domain.Tag{
		{ID: 3, Slug: "drafts", Name: "Drafts", Stats: domain.Stats{All: 5}},
		{ID: 2, Slug: "outbox", Name: "Outbox"},
		{ID: 7, Slug: "work", Name: "Work", LabelColor: "red", Stats: domain.Stats{New: 1, SumNew: 4}, Subtags: []domain.Tag{
			{ID: 8, ParentID: 7, Slug: "outbox", Name: "Outbox", Stats: domain.Stats{All: 9, New: 2}},
		}},
	}
	cfg := ViewConfig{Selected: domain.NewTagSet(8), Palette: theme.Default()}
	rows := r.Rows(tags, cfg)
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}

	drafts, outbox, work := rows[0], rows[1], rows[2]
	if drafts.Class != "sidebar-tags-fixed" || drafts.Badge != "5" {
		t.Errorf("drafts = %q badge %q", drafts.Class, drafts.Badge)
	}
	if !outbox.Hidden || outbox.Class != "sidebar-tags-fixed hide" {
		t.Errorf("outbox = %q hidden=%v, want hidden fixed", outbox.Class, outbox.Hidden)
	}
	if outbox.LinkClass != "sidebar-tag" || outbox.Badge != "" {
		t.Errorf("outbox link = %q badge %q, want no unread", outbox.LinkClass, outbox.Badge)
	}
	if work.Class != "sidebar-tags-draggable sidebar-subtags-expanded" {
		t.Errorf("work class = %q", work.Class)
	}
	if work.Unread != 4 || work.Color != "#d9534f" || work.URL != "/in/work/" {
		t.Errorf("work = %+v", work)
	}
	if !work.Collapsible || work.Collapsed || work.ToggleIcon() != IconExpanded {
		t.Errorf("work toggle state = collapsible %v collapsed %v", work.Collapsible, work.Collapsed)
	}

	sub := work.Subtags[0]
	if !sub.Subtag || sub.Kind != RowDraggable {
		t.Errorf("subtag kind = %v subtag=%v", sub.Kind, sub.Subtag)
	}
	if sub.Class != "sidebar-tags-draggable sidebar-subtag navigation-on" {
		t.Errorf("subtag class = %q", sub.Class)
	}
	if sub.Unread != 2 || sub.Badge != "2" {
		t.Errorf("subtag unread = %d badge %q, want plain new count", sub.Unread, sub.Badge)
	}
}

func TestRows_Collapsed(t *testing.T) {
	r := newTestRenderer(t, Options{})
	tags := []domain.Tag{{ID: 7, Slug: "work", Subtags: []domain.Tag{{ID: 8, ParentID: 7, Slug: "a"}}}}
	rows := r.Rows(tags, ViewConfig{Collapsed: domain.NewTagSet(7)})
	if rows[0].Class != "sidebar-tags-draggable" {
		t.Errorf("collapsed class = %q, want no expanded marker", rows[0].Class)
	}
	if rows[0].ToggleIcon() != IconCollapsed || rows[0].SubtagsClass() != "sidebar-subtags hide" {
		t.Errorf("toggle = %q list = %q", rows[0].ToggleIcon(), rows[0].SubtagsClass())
	}
}

func TestRows_URLFromTagWins(t *testing.T) {
	r := newTestRenderer(t, Options{BasePath: "/mail"})
	rows := r.Rows([]domain.Tag{
		{ID: 1, Slug: "a"},
		{ID: 2, Slug: "b", URL: "/custom/"},
	}, ViewConfig{})
	if rows[0].URL != "/mail/in/a/" || rows[1].URL != "/custom/" {
		t.Errorf("urls = %q, %q", rows[0].URL, rows[1].URL)
	}
}
