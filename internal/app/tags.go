package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/gosimple/slug"

	"github.com/lu-zhengda/tagside/internal/domain"
	"github.com/lu-zhengda/tagside/internal/search"
	"github.com/lu-zhengda/tagside/internal/sidebar"
	"github.com/lu-zhengda/tagside/internal/store"
	"github.com/lu-zhengda/tagside/internal/theme"
)

var (
	// ErrInvalidTag is returned for tag input that can never be stored.
	ErrInvalidTag = errors.New("invalid tag")
	// ErrDuplicateSlug is returned when a tag name maps to a slug already in use.
	ErrDuplicateSlug = errors.New("tag slug already exists")
)

const maxTagNameLen = 64

// TagService manages the tags of a single account and assembles the view
// state the sidebar is rendered from.
type TagService struct {
	store     store.Store
	accountID string
	density   domain.Density
	palette   theme.Palette
}

// NewTagService creates a TagService for accountID. A nil palette means the
// built-in one.
func NewTagService(s store.Store, accountID string, density domain.Density, palette theme.Palette) *TagService {
	if palette == nil {
		palette = theme.Default()
	}
	if density == "" {
		density = domain.DensityComfy
	}
	return &TagService{store: s, accountID: accountID, density: density, palette: palette}
}

// AccountID returns the account this service operates on.
func (s *TagService) AccountID() string {
	return s.accountID
}

// Palette returns the label palette used for rendering.
func (s *TagService) Palette() theme.Palette {
	return s.palette
}

// Sidebar loads the priority and regular tag trees and the view state for
// one render. query is the current search; tags it names are marked active.
func (s *TagService) Sidebar(ctx context.Context, query string) ([]domain.Tag, []domain.Tag, sidebar.ViewConfig, error) {
	priority, err := s.store.TagTree(ctx, s.accountID, domain.DisplayPriority)
	if err != nil {
		return nil, nil, sidebar.ViewConfig{}, fmt.Errorf("failed to load priority tags: %w", err)
	}
	regular, err := s.store.TagTree(ctx, s.accountID, domain.DisplayTag)
	if err != nil {
		return nil, nil, sidebar.ViewConfig{}, fmt.Errorf("failed to load tags: %w", err)
	}
	collapsed, err := s.store.CollapsedTags(ctx, s.accountID)
	if err != nil {
		return nil, nil, sidebar.ViewConfig{}, fmt.Errorf("failed to load collapsed tags: %w", err)
	}
	organizing, err := s.store.Organizing(ctx, s.accountID)
	if err != nil {
		return nil, nil, sidebar.ViewConfig{}, fmt.Errorf("failed to load organize state: %w", err)
	}

	cfg := sidebar.ViewConfig{
		Density:    s.density,
		Collapsed:  collapsed,
		Selected:   search.SelectedTags(query, priority, regular),
		Organizing: organizing,
		Palette:    s.palette,
	}
	return priority, regular, cfg, nil
}

// CreateTagRequest describes a tag created from the sidebar.
type CreateTagRequest struct {
	Name       string
	Icon       string
	LabelColor string
	Display    string
	ParentID   int64
}

// CreateTag validates req and stores a new tag after its siblings.
func (s *TagService) CreateTag(ctx context.Context, req CreateTagRequest) (domain.NewTag, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.NewTag{}, fmt.Errorf("%w: name is required", ErrInvalidTag)
	}
	if utf8.RuneCountInString(name) > maxTagNameLen {
		return domain.NewTag{}, fmt.Errorf("%w: name longer than %d characters", ErrInvalidTag, maxTagNameLen)
	}
	tagSlug := slug.Make(name)
	if tagSlug == "" {
		return domain.NewTag{}, fmt.Errorf("%w: name %q has no usable characters", ErrInvalidTag, name)
	}
	display, err := domain.ParseDisplay(req.Display)
	if err != nil {
		return domain.NewTag{}, fmt.Errorf("%w: %v", ErrInvalidTag, err)
	}

	color := strings.ToLower(strings.TrimSpace(req.LabelColor))
	if color == "" {
		color = sidebar.DefaultTagColor
	} else if !s.palette.Has(color) {
		return domain.NewTag{}, s.unknownColor(req.LabelColor)
	}
	icon := strings.TrimSpace(req.Icon)
	if icon == "" {
		icon = sidebar.DefaultTagIcon
	}

	if req.ParentID != 0 {
		parent, err := s.store.GetTag(ctx, s.accountID, req.ParentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NewTag{}, fmt.Errorf("%w: parent %d does not exist", ErrInvalidTag, req.ParentID)
			}
			return domain.NewTag{}, err
		}
		if parent.IsSubtag() {
			return domain.NewTag{}, fmt.Errorf("%w: parent %d is itself a subtag", ErrInvalidTag, req.ParentID)
		}
	}

	if err := s.checkSlugFree(ctx, tagSlug); err != nil {
		return domain.NewTag{}, err
	}

	order, err := s.store.NextDisplayOrder(ctx, s.accountID, req.ParentID)
	if err != nil {
		return domain.NewTag{}, err
	}

	tag := domain.Tag{
		AccountID:    s.accountID,
		ParentID:     req.ParentID,
		Slug:         tagSlug,
		Name:         name,
		Icon:         icon,
		LabelColor:   color,
		Display:      display,
		DisplayOrder: order,
	}
	if err := s.store.CreateTag(ctx, &tag); err != nil {
		return domain.NewTag{}, err
	}
	log.Printf("[tags] created tag %s (%d) for account %s", tag.Slug, tag.ID, s.accountID)

	return domain.NewTag{
		ID:           tag.ID,
		Slug:         tag.Slug,
		Name:         tag.Name,
		Icon:         tag.Icon,
		LabelColor:   tag.LabelColor,
		DisplayOrder: tag.DisplayOrder,
	}, nil
}

func (s *TagService) checkSlugFree(ctx context.Context, tagSlug string) error {
	_, err := s.store.GetTagBySlug(ctx, s.accountID, tagSlug)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrDuplicateSlug, tagSlug)
	case errors.Is(err, sql.ErrNoRows):
		return nil
	default:
		return err
	}
}

// Reorder moves the sibling tags in ids into the order given. ids may be a
// subset of the siblings, such as one sidebar section: the listed tags
// trade places among the positions they already hold and every other
// sibling keeps its position. Top-level drafts and outbox are pinned and
// must stay where they are.
func (s *TagService) Reorder(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: no tags to reorder", ErrInvalidTag)
	}
	seen := make(domain.TagSet, len(ids))
	var parentID int64
	for i, id := range ids {
		if seen.Has(id) {
			return fmt.Errorf("%w: tag %d listed twice", ErrInvalidTag, id)
		}
		seen.Add(id)

		tag, err := s.store.GetTag(ctx, s.accountID, id)
		if err != nil {
			return err
		}
		if i == 0 {
			parentID = tag.ParentID
		} else if tag.ParentID != parentID {
			return fmt.Errorf("%w: tag %d is not a sibling of tag %d", ErrInvalidTag, id, ids[0])
		}
	}

	all, err := s.store.ListTags(ctx, s.accountID)
	if err != nil {
		return err
	}
	var siblings []domain.Tag
	for _, t := range all {
		if t.ParentID == parentID {
			siblings = append(siblings, t)
		}
	}

	order := make([]int64, len(siblings))
	next := 0
	for i, t := range siblings {
		order[i] = t.ID
		if !seen.Has(t.ID) {
			continue
		}
		order[i] = ids[next]
		next++
		if parentID == 0 && sidebar.KindOf(t.Slug).Fixed() && order[i] != t.ID {
			return fmt.Errorf("%w: %s cannot be moved", ErrInvalidTag, t.Slug)
		}
	}

	if err := s.store.SetDisplayOrder(ctx, s.accountID, order); err != nil {
		return err
	}
	log.Printf("[tags] reordered %d tags for account %s", len(ids), s.accountID)
	return nil
}

// UpdateTagRequest changes a tag's presentation. Empty fields are left as
// they are.
type UpdateTagRequest struct {
	Name       string
	Icon       string
	LabelColor string
	Display    string
}

// UpdateTag applies req to the tag with the given id. A new name also moves
// the tag to the matching slug. System tags keep their slug.
func (s *TagService) UpdateTag(ctx context.Context, id int64, req UpdateTagRequest) (*domain.Tag, error) {
	tag, err := s.store.GetTag(ctx, s.accountID, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		if utf8.RuneCountInString(name) > maxTagNameLen {
			return nil, fmt.Errorf("%w: name longer than %d characters", ErrInvalidTag, maxTagNameLen)
		}
		if !domain.IsSystemSlug(tag.Slug) {
			tagSlug := slug.Make(name)
			if tagSlug == "" {
				return nil, fmt.Errorf("%w: name %q has no usable characters", ErrInvalidTag, name)
			}
			if tagSlug != tag.Slug {
				if err := s.checkSlugFree(ctx, tagSlug); err != nil {
					return nil, err
				}
				tag.Slug = tagSlug
			}
		}
		tag.Name = name
	}
	if icon := strings.TrimSpace(req.Icon); icon != "" {
		tag.Icon = icon
	}
	if req.LabelColor != "" {
		color := strings.ToLower(strings.TrimSpace(req.LabelColor))
		if !s.palette.Has(color) {
			return nil, s.unknownColor(req.LabelColor)
		}
		tag.LabelColor = color
	}
	if req.Display != "" {
		display, err := domain.ParseDisplay(req.Display)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTag, err)
		}
		tag.Display = display
	}

	if err := s.store.UpdateTag(ctx, tag); err != nil {
		return nil, err
	}
	log.Printf("[tags] updated tag %s (%d) for account %s", tag.Slug, tag.ID, s.accountID)
	return tag, nil
}

// DeleteTag removes a tag with its subtags. Messages keep existing but lose
// the tag. System tags cannot be deleted.
func (s *TagService) DeleteTag(ctx context.Context, id int64) error {
	tag, err := s.store.GetTag(ctx, s.accountID, id)
	if err != nil {
		return err
	}
	if domain.IsSystemSlug(tag.Slug) {
		return fmt.Errorf("%w: %s is a system tag", ErrInvalidTag, tag.Slug)
	}
	if err := s.store.DeleteTag(ctx, s.accountID, id); err != nil {
		return err
	}
	log.Printf("[tags] deleted tag %s (%d) for account %s", tag.Slug, tag.ID, s.accountID)
	return nil
}

func (s *TagService) unknownColor(name string) error {
	return fmt.Errorf("%w: unknown label color %q (have %s)", ErrInvalidTag, name, strings.Join(s.palette.Names(), ", "))
}

// ToggleSubtags flips the collapsed state of a tag's subtag list and returns
// the new state.
func (s *TagService) ToggleSubtags(ctx context.Context, id int64) (bool, error) {
	if _, err := s.store.GetTag(ctx, s.accountID, id); err != nil {
		return false, err
	}
	collapsed, err := s.store.CollapsedTags(ctx, s.accountID)
	if err != nil {
		return false, err
	}
	next := !collapsed.Has(id)
	if err := s.store.SetCollapsed(ctx, s.accountID, id, next); err != nil {
		return false, err
	}
	return next, nil
}

// ToggleOrganize flips organize mode and returns the new state.
func (s *TagService) ToggleOrganize(ctx context.Context) (bool, error) {
	on, err := s.store.Organizing(ctx, s.accountID)
	if err != nil {
		return false, err
	}
	if err := s.store.SetOrganizing(ctx, s.accountID, !on); err != nil {
		return false, err
	}
	return !on, nil
}

// EnsureSystemTags creates any missing system tag. Existing tags are left
// untouched, so user edits to them survive.
func (s *TagService) EnsureSystemTags(ctx context.Context) error {
	created := 0
	for i, sys := range domain.SystemTags {
		_, err := s.store.GetTagBySlug(ctx, s.accountID, sys.Slug)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		tag := sys
		tag.AccountID = s.accountID
		tag.DisplayOrder = i
		if err := s.store.CreateTag(ctx, &tag); err != nil {
			return err
		}
		created++
	}
	if created > 0 {
		log.Printf("[tags] seeded %d system tags for account %s", created, s.accountID)
	}
	return nil
}
