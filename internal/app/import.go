package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"

	"github.com/lu-zhengda/tagside/internal/domain"
	"github.com/lu-zhengda/tagside/internal/sidebar"
	"github.com/lu-zhengda/tagside/internal/store"
)

// DefaultSeparator splits mailbox paths into tag and subtag.
const DefaultSeparator = "/"

// Fixture is a mailbox dump: the mailbox list of an account and the
// messages filed in it.
type Fixture struct {
	Separator string           `yaml:"separator"`
	Mailboxes []FixtureMailbox `yaml:"mailboxes"`
	Messages  []FixtureMessage `yaml:"messages"`
}

type FixtureMailbox struct {
	Path    string `yaml:"path"`
	Icon    string `yaml:"icon"`
	Color   string `yaml:"color"`
	Display string `yaml:"display"`
}

type FixtureMessage struct {
	ID        string   `yaml:"id"`
	From      string   `yaml:"from"`
	Subject   string   `yaml:"subject"`
	Date      string   `yaml:"date"`
	Read      bool     `yaml:"read"`
	Mailboxes []string `yaml:"mailboxes"`
}

// ImportResult counts what an import changed.
type ImportResult struct {
	TagsCreated int
	Messages    int
}

// ParseFixture decodes a YAML fixture.
func ParseFixture(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	if f.Separator == "" {
		f.Separator = DefaultSeparator
	}
	return &f, nil
}

// Importer loads fixtures into the store for one account.
type Importer struct {
	store     store.Store
	accountID string

	// path -> tag id, filled as mailboxes are resolved
	resolved map[string]int64
}

func NewImporter(s store.Store, accountID string) *Importer {
	return &Importer{store: s, accountID: accountID}
}

// Import creates tags for every mailbox and upserts every message. Mailboxes
// referenced only by messages are created too. Running the same fixture
// twice is a no-op apart from refreshed message fields.
func (im *Importer) Import(ctx context.Context, f *Fixture) (ImportResult, error) {
	var res ImportResult
	im.resolved = make(map[string]int64)
	sep := f.Separator
	if sep == "" {
		sep = DefaultSeparator
	}

	for _, mb := range f.Mailboxes {
		created, err := im.resolve(ctx, mb, sep)
		if err != nil {
			return res, err
		}
		res.TagsCreated += created
	}

	for _, m := range f.Messages {
		if m.ID == "" {
			return res, fmt.Errorf("failed to import message: missing id")
		}
		email := &domain.Email{
			ID:      m.ID,
			From:    parseAddress(m.From),
			Subject: m.Subject,
			Date:    parseDate(m.Date),
			IsRead:  m.Read,
		}
		for _, path := range m.Mailboxes {
			created, err := im.resolve(ctx, FixtureMailbox{Path: path}, sep)
			if err != nil {
				return res, err
			}
			res.TagsCreated += created
			email.TagIDs = append(email.TagIDs, im.resolved[path])
		}
		if err := im.store.UpsertEmail(ctx, email, im.accountID); err != nil {
			return res, fmt.Errorf("failed to import message %s: %w", m.ID, err)
		}
		res.Messages++
	}

	log.Printf("[import] account %s: %d tags created, %d messages", im.accountID, res.TagsCreated, res.Messages)
	return res, nil
}

// resolve maps a mailbox path to a tag, creating the tag and its parent as
// needed. Levels past the second are folded into the subtag name.
func (im *Importer) resolve(ctx context.Context, mb FixtureMailbox, sep string) (int, error) {
	if _, ok := im.resolved[mb.Path]; ok {
		return 0, nil
	}
	parts := splitPath(mb.Path, sep)
	if len(parts) == 0 {
		return 0, fmt.Errorf("failed to import mailbox %q: empty path", mb.Path)
	}

	created := 0
	top := mb
	if len(parts) > 1 {
		top = FixtureMailbox{}
	}
	parent, n, err := im.ensureTag(ctx, parts[0], 0, "", top)
	if err != nil {
		return created, err
	}
	created += n
	id := parent.ID

	if len(parts) > 1 {
		name := strings.Join(parts[1:], sep)
		child, n, err := im.ensureTag(ctx, name, parent.ID, parent.Slug, mb)
		if err != nil {
			return created, err
		}
		created += n
		id = child.ID
	}
	im.resolved[mb.Path] = id
	return created, nil
}

func (im *Importer) ensureTag(ctx context.Context, name string, parentID int64, parentSlug string, mb FixtureMailbox) (*domain.Tag, int, error) {
	tagSlug := slug.Make(name)
	if tagSlug == "" {
		return nil, 0, fmt.Errorf("failed to import mailbox %q: %w", mb.Path, ErrInvalidTag)
	}

	existing, err := im.store.GetTagBySlug(ctx, im.accountID, tagSlug)
	switch {
	case err == nil && existing.ParentID == parentID:
		return existing, 0, nil
	case err == nil && parentID == 0:
		return nil, 0, fmt.Errorf("failed to import mailbox %q: %w: %s is a subtag", mb.Path, ErrDuplicateSlug, tagSlug)
	case err == nil:
		// Same leaf name under another parent.
		tagSlug, existing, err = im.subtagSlug(ctx, parentSlug+"-"+tagSlug, parentID)
		if err != nil {
			return nil, 0, err
		}
		if existing != nil {
			return existing, 0, nil
		}
	case !errors.Is(err, sql.ErrNoRows):
		return nil, 0, err
	}

	display, err := domain.ParseDisplay(mb.Display)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to import mailbox %q: %w: %v", mb.Path, ErrInvalidTag, err)
	}
	order, err := im.store.NextDisplayOrder(ctx, im.accountID, parentID)
	if err != nil {
		return nil, 0, err
	}
	tag := &domain.Tag{
		AccountID:    im.accountID,
		ParentID:     parentID,
		Slug:         tagSlug,
		Name:         name,
		Icon:         mb.Icon,
		LabelColor:   mb.Color,
		Display:      display,
		DisplayOrder: order,
	}
	if tag.Icon == "" {
		tag.Icon = sidebar.DefaultTagIcon
	}
	if tag.LabelColor == "" {
		tag.LabelColor = sidebar.DefaultTagColor
	}
	if err := im.store.CreateTag(ctx, tag); err != nil {
		return nil, 0, err
	}
	return tag, 1, nil
}

// subtagSlug finds the slug for a subtag of parentID starting from base,
// adding a numeric suffix while the slug belongs to some other tag. It
// returns the subtag instead when one already holds the slug.
func (im *Importer) subtagSlug(ctx context.Context, base string, parentID int64) (string, *domain.Tag, error) {
	for n := 1; ; n++ {
		candidate := base
		if n > 1 {
			candidate = fmt.Sprintf("%s-%d", base, n)
		}
		existing, err := im.store.GetTagBySlug(ctx, im.accountID, candidate)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return candidate, nil, nil
		case err != nil:
			return "", nil, err
		case existing.ParentID == parentID:
			return candidate, existing, nil
		}
	}
}

func splitPath(path, sep string) []string {
	var parts []string
	for _, p := range strings.Split(path, sep) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
