package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/lu-zhengda/tagside/internal/domain"
)

func seedEmail(t *testing.T, db *DB, id string, read bool, tagIDs ...int64) {
	t.Helper()
	email := &domain.Email{
		ID:     id,
		From:   domain.Address{Email: "sender@example.com"},
		Date:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		IsRead: read,
		TagIDs: tagIDs,
	}
	if err := db.UpsertEmail(context.Background(), email, "acc-1"); err != nil {
		t.Fatalf("seedEmail(%s): %v", id, err)
	}
}

func TestCreateAndGetTag(t *testing.T) {
	db := newTestDB(t)
	seedAccount(t, db)
	ctx := context.Background()

	tag := seedTag(t, db, domain.Tag{Slug: "work", Name: "Work", Icon: "icon-briefcase", LabelColor: "red", DisplayOrder: 4})
	if tag.ID == 0 {
		t.Fatal("CreateTag() did not set ID")
	}

	got, err := db.GetTag(ctx, "acc-1", tag.ID)
	if err != nil {
		t.Fatalf("GetTag() error: %v", err)
	}
	if got.Slug != "work" || got.Name != "Work" || got.Icon != "icon-briefcase" || got.LabelColor != "red" {
		t.Errorf("GetTag() = %+v", got)
	}
	if got.Display != domain.DisplayTag || got.DisplayOrder != 4 || got.ParentID != 0 {
		t.Errorf("GetTag() display = %q order = %d parent = %d", got.Display, got.DisplayOrder, got.ParentID)
	}

	bySlug, err := db.GetTagBySlug(ctx, "acc-1", "work")
	if err != nil {
		t.Fatalf("GetTagBySlug() error: %v", err)
	}
	if bySlug.ID != tag.ID {
		t.Errorf("GetTagBySlug() ID = %d, want %d", bySlug.ID, tag.ID)
	}

	if _, err := db.GetTagBySlug(ctx, "acc-1", "missing"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetTagBySlug(missing) error = %v, want sql.ErrNoRows", err)
	}
}

func TestCreateTag_DuplicateSlug(t *testing.T) {
	db := newTestDB(t)
	seedAccount(t, db)
	seedTag(t, db, domain.Tag{Slug: "work"})

	dup := domain.Tag{AccountID: "acc-1", Slug: "work", Name: "Work", Display: domain.DisplayTag}
	if err := db.CreateTag(context.Background(), &dup); err == nil {
		t.Error("CreateTag() with duplicate slug should fail")
	}
}

func TestTagTree(t *testing.T) {
	db := newTestDB(t)
	seedAccount(t, db)
	ctx := context.Background()

	inbox := seedTag(t, db, domain.Tag{Slug: "inbox", Display: domain.DisplayPriority, DisplayOrder: 0})
	work := seedTag(t, db, domain.Tag{Slug: "work", DisplayOrder: 2})
	home := seedTag(t, db, domain.Tag{Slug: "home", DisplayOrder: 1})
	projects := seedTag(t, db, domain.Tag{Slug: "projects", ParentID: work.ID, DisplayOrder: 0})
	hidden := seedTag(t, db, domain.Tag{Slug: "hidden", ParentID: work.ID, Display: domain.DisplayInvisible, DisplayOrder: 1})
	seedTag(t, db, domain.Tag{Slug: "trash", Display: domain.DisplayArchive})

	seedEmail(t, db, "m1", false, inbox.ID, work.ID)
	seedEmail(t, db, "m2", true, work.ID)
	seedEmail(t, db, "m3", false, projects.ID)
	seedEmail(t, db, "m4", false, projects.ID)
	seedEmail(t, db, "m5", false, hidden.ID)

	tree, err := db.TagTree(ctx, "acc-1", domain.DisplayTag)
	if err != nil {
		t.Fatalf("TagTree() error: %v", err)
	}
	if len(tree) != 2 {
		t.Fatalf("TagTree() len = %d, want 2", len(tree))
	}
	if tree[0].ID != home.ID || tree[1].ID != work.ID {
		t.Errorf("TagTree() order = [%s %s], want [home work]", tree[0].Slug, tree[1].Slug)
	}

	if tree[0].Stats != (domain.Stats{}) {
		t.Errorf("home stats = %+v, want zero", tree[0].Stats)
	}
	if len(tree[0].Subtags) != 0 {
		t.Errorf("home subtags = %d, want 0", len(tree[0].Subtags))
	}

	w := tree[1]
	if w.Stats.All != 2 || w.Stats.New != 1 {
		t.Errorf("work stats = %+v, want all 2 new 1", w.Stats)
	}
	if w.Stats.SumNew != 3 {
		t.Errorf("work SumNew = %d, want 3 (own 1 + projects 2, invisible skipped)", w.Stats.SumNew)
	}
	if len(w.Subtags) != 1 || w.Subtags[0].ID != projects.ID {
		t.Fatalf("work subtags = %+v, want only projects", w.Subtags)
	}
	if w.Subtags[0].Stats.All != 2 || w.Subtags[0].Stats.New != 2 {
		t.Errorf("projects stats = %+v", w.Subtags[0].Stats)
	}

	priority, err := db.TagTree(ctx, "acc-1", domain.DisplayPriority)
	if err != nil {
		t.Fatalf("TagTree(priority) error: %v", err)
	}
	if len(priority) != 1 || priority[0].Slug != "inbox" {
		t.Fatalf("TagTree(priority) = %+v", priority)
	}
	if priority[0].Stats.SumNew != 0 || priority[0].Stats.New != 1 {
		t.Errorf("inbox stats = %+v, want new 1 and no sum", priority[0].Stats)
	}
}

func TestUpdateTag(t *testing.T) {
	db := newTestDB(t)
	seedAccount(t, db)
	ctx := context.Background()

	tag := seedTag(t, db, domain.Tag{Slug: "work", Name: "Work"})
	tag.Name = "Office"
	tag.LabelColor = "teal"
	if err := db.UpdateTag(ctx, &tag); err != nil {
		t.Fatalf("UpdateTag() error: %v", err)
	}
	got, err := db.GetTag(ctx, "acc-1", tag.ID)
	if err != nil {
		t.Fatalf("GetTag() error: %v", err)
	}
	if got.Name != "Office" || got.LabelColor != "teal" {
		t.Errorf("GetTag() = %+v, want updated name and color", got)
	}

	missing := domain.Tag{ID: 999, AccountID: "acc-1", Slug: "x", Display: domain.DisplayTag}
	if err := db.UpdateTag(ctx, &missing); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("UpdateTag(missing) error = %v, want sql.ErrNoRows", err)
	}
}

func TestSetDisplayOrder(t *testing.T) {
	db := newTestDB(t)
	seedAccount(t, db)
	ctx := context.Background()

	a := seedTag(t, db, domain.Tag{Slug: "a", DisplayOrder: 0})
	b := seedTag(t, db, domain.Tag{Slug: "b", DisplayOrder: 1})
	c := seedTag(t, db, domain.Tag{Slug: "c", DisplayOrder: 2})

	if err := db.SetDisplayOrder(ctx, "acc-1", []int64{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("SetDisplayOrder() error: %v", err)
	}
	tags, err := db.ListTags(ctx, "acc-1")
	if err != nil {
		t.Fatalf("ListTags() error: %v", err)
	}
	var got []string
	for _, tag := range tags {
		got = append(got, tag.Slug)
	}
	if len(got) != 3 || got[0] != "c" || got[1] != "a" || got[2] != "b" {
		t.Errorf("order = %v, want [c a b]", got)
	}
}

func TestSetDisplayOrder_UnknownRollsBack(t *testing.T) {
	db := newTestDB(t)
	seedAccount(t, db)
	ctx := context.Background()

	a := seedTag(t, db, domain.Tag{Slug: "a", DisplayOrder: 5})
	err := db.SetDisplayOrder(ctx, "acc-1", []int64{a.ID, 999})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("SetDisplayOrder() error = %v, want sql.ErrNoRows", err)
	}
	got, err := db.GetTag(ctx, "acc-1", a.ID)
	if err != nil {
		t.Fatalf("GetTag() error: %v", err)
	}
	if got.DisplayOrder != 5 {
		t.Errorf("DisplayOrder = %d, want 5 after rollback", got.DisplayOrder)
	}
}

func TestNextDisplayOrder(t *testing.T) {
	db := newTestDB(t)
	seedAccount(t, db)
	ctx := context.Background()

	next, err := db.NextDisplayOrder(ctx, "acc-1", 0)
	if err != nil {
		t.Fatalf("NextDisplayOrder() error: %v", err)
	}
	if next != 0 {
		t.Errorf("NextDisplayOrder() on empty = %d, want 0", next)
	}

	work := seedTag(t, db, domain.Tag{Slug: "work", DisplayOrder: 3})
	seedTag(t, db, domain.Tag{Slug: "sub", ParentID: work.ID, DisplayOrder: 7})

	if next, _ = db.NextDisplayOrder(ctx, "acc-1", 0); next != 4 {
		t.Errorf("NextDisplayOrder(top) = %d, want 4", next)
	}
	if next, _ = db.NextDisplayOrder(ctx, "acc-1", work.ID); next != 8 {
		t.Errorf("NextDisplayOrder(work) = %d, want 8", next)
	}
}

func TestDeleteTag_Cascades(t *testing.T) {
	db := newTestDB(t)
	seedAccount(t, db)
	ctx := context.Background()

	work := seedTag(t, db, domain.Tag{Slug: "work"})
	sub := seedTag(t, db, domain.Tag{Slug: "sub", ParentID: work.ID})
	seedEmail(t, db, "m1", false, work.ID, sub.ID)

	if err := db.DeleteTag(ctx, "acc-1", work.ID); err != nil {
		t.Fatalf("DeleteTag() error: %v", err)
	}
	if _, err := db.GetTag(ctx, "acc-1", sub.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("subtag still present after parent delete: %v", err)
	}
	email, err := db.GetEmail(ctx, "m1")
	if err != nil {
		t.Fatalf("GetEmail() error: %v", err)
	}
	if len(email.TagIDs) != 0 {
		t.Errorf("email TagIDs = %v, want none", email.TagIDs)
	}

	if err := db.DeleteTag(ctx, "acc-1", work.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("DeleteTag(again) error = %v, want sql.ErrNoRows", err)
	}
}
