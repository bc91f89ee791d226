package sidebar

import (
	"strings"

	"github.com/lu-zhengda/tagside/internal/domain"
)

// RowKind selects how a top-level row is styled and counted.
type RowKind int

const (
	RowDraggable RowKind = iota
	RowDrafts
	RowOutbox
)

func (k RowKind) String() string {
	switch k {
	case RowDrafts:
		return "drafts"
	case RowOutbox:
		return "outbox"
	default:
		return "draggable"
	}
}

// KindOf maps a tag slug to its row kind.
func KindOf(slug string) RowKind {
	switch slug {
	case domain.SlugDrafts:
		return RowDrafts
	case domain.SlugOutbox:
		return RowOutbox
	default:
		return RowDraggable
	}
}

// Fixed reports whether rows of this kind are pinned in place.
func (k RowKind) Fixed() bool {
	return k == RowDrafts || k == RowOutbox
}

// UnreadCount picks the count shown on a top-level row. Drafts and outbox
// count every message; other tags prefer the aggregated SumNew and fall
// back to New.
func UnreadCount(kind RowKind, s domain.Stats) int {
	switch {
	case kind.Fixed():
		return s.All
	case s.SumNew != 0:
		return s.SumNew
	default:
		return s.New
	}
}

// SubtagUnreadCount is the count shown on a subtag row.
func SubtagUnreadCount(s domain.Stats) int {
	return s.New
}

// CSS classes emitted on rows.
const (
	ClassDraggable   = "sidebar-tags-draggable"
	ClassFixed       = "sidebar-tags-fixed"
	ClassExpanded    = "sidebar-subtags-expanded"
	ClassSubtag      = "sidebar-subtag"
	ClassHidden      = "hide"
	ClassActive      = "navigation-on"
	ClassLink        = "sidebar-tag"
	ClassHasUnread   = "has-unread"
	IconCollapsed    = "icon-arrow-right"
	IconExpanded     = "icon-arrow-down"
	DefaultTagIcon   = "icon-tag"
	DefaultTagColor  = "blue"
	subtagsListClass = "sidebar-subtags"
)

// Row is one fully resolved sidebar entry, ready for a template or the
// terminal preview.
type Row struct {
	ID           int64
	Slug         string
	Name         string
	URL          string
	Icon         string
	Color        string
	DisplayOrder int
	Kind         RowKind

	Class     string
	LinkClass string
	Unread    int
	Badge     string

	Active      bool
	Hidden      bool
	Subtag      bool
	Collapsible bool
	Collapsed   bool
	Subtags     []Row
}

// SubtagsClass is the class of the nested subtag list.
func (r Row) SubtagsClass() string {
	if r.Collapsed {
		return subtagsListClass + " " + ClassHidden
	}
	return subtagsListClass
}

// ToggleIcon is the icon of the expand/collapse control.
func (r Row) ToggleIcon() string {
	if r.Collapsed {
		return IconCollapsed
	}
	return IconExpanded
}

// Rows resolves tags into rows using cfg for selection, collapse state and
// colors.
func (r *Renderer) Rows(tags []domain.Tag, cfg ViewConfig) []Row {
	rows := make([]Row, 0, len(tags))
	for i := range tags {
		rows = append(rows, r.row(&tags[i], cfg))
	}
	return rows
}

func (r *Renderer) row(t *domain.Tag, cfg ViewConfig) Row {
	kind := KindOf(t.Slug)
	collapsed := cfg.Collapsed.Has(t.ID)
	row := r.baseRow(t, cfg)
	row.Kind = kind
	row.Unread = UnreadCount(kind, t.Stats)

	var class []string
	switch kind {
	case RowDrafts:
		class = append(class, ClassFixed)
	case RowOutbox:
		class = append(class, ClassFixed)
		if t.Stats.All == 0 {
			class = append(class, ClassHidden)
			row.Hidden = true
		}
	default:
		class = append(class, ClassDraggable)
		if t.HasSubtags() && !collapsed {
			class = append(class, ClassExpanded)
		}
	}
	if row.Active {
		class = append(class, ClassActive)
	}
	row.Class = strings.Join(class, " ")

	if t.HasSubtags() {
		row.Collapsible = true
		row.Collapsed = collapsed
		row.Subtags = make([]Row, 0, len(t.Subtags))
		for i := range t.Subtags {
			row.Subtags = append(row.Subtags, r.subtagRow(&t.Subtags[i], cfg))
		}
	}
	r.finish(&row)
	return row
}

// subtagRow never looks at the slug or at subtags of its own: the tree is
// two levels deep.
func (r *Renderer) subtagRow(t *domain.Tag, cfg ViewConfig) Row {
	row := r.baseRow(t, cfg)
	row.Subtag = true
	row.Unread = SubtagUnreadCount(t.Stats)
	row.Class = ClassDraggable + " " + ClassSubtag
	if row.Active {
		row.Class += " " + ClassActive
	}
	r.finish(&row)
	return row
}

func (r *Renderer) baseRow(t *domain.Tag, cfg ViewConfig) Row {
	url := t.URL
	if url == "" {
		url = domain.TagURL(r.basePath, t.Slug)
	}
	return Row{
		ID:           t.ID,
		Slug:         t.Slug,
		Name:         r.translate(t.Name),
		URL:          url,
		Icon:         t.Icon,
		Color:        cfg.Palette.Resolve(t.LabelColor),
		DisplayOrder: t.DisplayOrder,
		Active:       cfg.Selected.Has(t.ID),
	}
}

func (r *Renderer) finish(row *Row) {
	row.LinkClass = ClassLink
	if row.Unread != 0 {
		row.LinkClass += " " + ClassHasUnread
		row.Badge = r.formatNumber(row.Unread)
	}
}

// newItemRow is the row stamped out for a freshly created tag: draggable,
// no subtags, empty notification slot.
func (r *Renderer) newItemRow(t domain.NewTag, palette paletteResolver) Row {
	icon := t.Icon
	if icon == "" {
		icon = DefaultTagIcon
	}
	color := t.LabelColor
	if color == "" {
		color = DefaultTagColor
	}
	return Row{
		ID:           t.ID,
		Slug:         t.Slug,
		Name:         t.Name,
		URL:          domain.TagURL(r.basePath, t.Slug),
		Icon:         icon,
		Color:        palette.Resolve(color),
		DisplayOrder: t.DisplayOrder,
		Kind:         RowDraggable,
		Class:        ClassDraggable,
		LinkClass:    ClassLink,
	}
}
