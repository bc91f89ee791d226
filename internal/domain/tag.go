package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Display controls where a tag shows up in the sidebar.
type Display string

const (
	DisplayPriority  Display = "priority"
	DisplayTag       Display = "tag"
	DisplayArchive   Display = "archive"
	DisplayInvisible Display = "invisible"
)

// ParseDisplay validates a display mode. The empty string maps to DisplayTag.
func ParseDisplay(s string) (Display, error) {
	switch d := Display(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return DisplayTag, nil
	case DisplayPriority, DisplayTag, DisplayArchive, DisplayInvisible:
		return d, nil
	default:
		return "", fmt.Errorf("unknown display mode %q", s)
	}
}

// Stats are the message counters attached to a tag at load time.
// SumNew is zero unless the tag has subtags.
type Stats struct {
	All    int
	New    int
	SumNew int
}

type Tag struct {
	ID           int64
	AccountID    string
	ParentID     int64
	Slug         string
	Name         string
	URL          string
	Icon         string
	LabelColor   string
	Display      Display
	DisplayOrder int
	Subtags      []Tag
	Stats        Stats
}

func (t *Tag) HasSubtags() bool {
	return len(t.Subtags) > 0
}

func (t *Tag) IsSubtag() bool {
	return t.ParentID != 0
}

// NewTag is the record handed to the client when a tag is created
// interactively. It carries no stats.
type NewTag struct {
	ID           int64
	Slug         string
	Name         string
	Icon         string
	LabelColor   string
	DisplayOrder int
}

// TagURL builds the search URL for a tag slug under basePath.
func TagURL(basePath, slug string) string {
	return strings.TrimRight(basePath, "/") + "/in/" + slug + "/"
}

// Well-known tag slugs.
const (
	SlugInbox  = "inbox"
	SlugDrafts = "drafts"
	SlugOutbox = "outbox"
	SlugSent   = "sent"
	SlugSpam   = "spam"
	SlugTrash  = "trash"
)

// SystemTags are seeded for every new account, in sidebar order.
var SystemTags = []Tag{
	{Slug: SlugInbox, Name: "Inbox", Icon: "icon-inbox", LabelColor: "blue", Display: DisplayPriority},
	{Slug: SlugDrafts, Name: "Drafts", Icon: "icon-compose", LabelColor: "gray", Display: DisplayPriority},
	{Slug: SlugOutbox, Name: "Outbox", Icon: "icon-outbox", LabelColor: "orange", Display: DisplayPriority},
	{Slug: SlugSent, Name: "Sent", Icon: "icon-sent", LabelColor: "green", Display: DisplayPriority},
	{Slug: SlugSpam, Name: "Spam", Icon: "icon-spam", LabelColor: "red", Display: DisplayArchive},
	{Slug: SlugTrash, Name: "Trash", Icon: "icon-trash", LabelColor: "gray", Display: DisplayArchive},
}

// IsSystemSlug reports whether slug belongs to one of the SystemTags.
func IsSystemSlug(slug string) bool {
	for _, t := range SystemTags {
		if t.Slug == slug {
			return true
		}
	}
	return false
}

// Density is the sidebar display density chosen by the user.
type Density string

const (
	DensityCompact Density = "compact"
	DensityComfy   Density = "comfy"
	DensityCozy    Density = "cozy"
)

func ParseDensity(s string) (Density, error) {
	switch d := Density(strings.ToLower(strings.TrimSpace(s))); d {
	case DensityCompact, DensityComfy, DensityCozy:
		return d, nil
	default:
		return "", fmt.Errorf("unknown display density %q", s)
	}
}

// TagSet is a set of tag IDs. The zero value is an empty, read-only set.
type TagSet map[int64]struct{}

func NewTagSet(ids ...int64) TagSet {
	s := make(TagSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s TagSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

func (s TagSet) Add(id int64) {
	s[id] = struct{}{}
}

// IDs returns the members in ascending order.
func (s TagSet) IDs() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
