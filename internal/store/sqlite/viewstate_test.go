package sqlite

import (
	"context"
	"testing"

	"github.com/lu-zhengda/tagside/internal/domain"
)

func TestCollapsedTags(t *testing.T) {
	db := newTestDB(t)
	seedAccount(t, db)
	ctx := context.Background()
	work := seedTag(t, db, domain.Tag{Slug: "work"})
	home := seedTag(t, db, domain.Tag{Slug: "home"})

	set, err := db.CollapsedTags(ctx, "acc-1")
	if err != nil {
		t.Fatalf("CollapsedTags() error: %v", err)
	}
	if len(set) != 0 {
		t.Fatalf("CollapsedTags() = %v, want empty", set.IDs())
	}

	for _, id := range []int64{work.ID, home.ID, work.ID} {
		if err := db.SetCollapsed(ctx, "acc-1", id, true); err != nil {
			t.Fatalf("SetCollapsed(%d) error: %v", id, err)
		}
	}
	if err := db.SetCollapsed(ctx, "acc-1", home.ID, false); err != nil {
		t.Fatalf("SetCollapsed(false) error: %v", err)
	}

	set, err = db.CollapsedTags(ctx, "acc-1")
	if err != nil {
		t.Fatalf("CollapsedTags() error: %v", err)
	}
	if !set.Has(work.ID) || set.Has(home.ID) || len(set) != 1 {
		t.Errorf("CollapsedTags() = %v, want [%d]", set.IDs(), work.ID)
	}
}

func TestCollapsedTags_GoneWithTag(t *testing.T) {
	db := newTestDB(t)
	seedAccount(t, db)
	ctx := context.Background()
	work := seedTag(t, db, domain.Tag{Slug: "work"})

	if err := db.SetCollapsed(ctx, "acc-1", work.ID, true); err != nil {
		t.Fatalf("SetCollapsed() error: %v", err)
	}
	if err := db.DeleteTag(ctx, "acc-1", work.ID); err != nil {
		t.Fatalf("DeleteTag() error: %v", err)
	}
	set, err := db.CollapsedTags(ctx, "acc-1")
	if err != nil {
		t.Fatalf("CollapsedTags() error: %v", err)
	}
	if len(set) != 0 {
		t.Errorf("CollapsedTags() = %v, want empty after tag delete", set.IDs())
	}
}

func TestOrganizing(t *testing.T) {
	db := newTestDB(t)
	seedAccount(t, db)
	ctx := context.Background()

	on, err := db.Organizing(ctx, "acc-1")
	if err != nil {
		t.Fatalf("Organizing() error: %v", err)
	}
	if on {
		t.Error("Organizing() = true without saved state")
	}

	for _, want := range []bool{true, false, true} {
		if err := db.SetOrganizing(ctx, "acc-1", want); err != nil {
			t.Fatalf("SetOrganizing(%v) error: %v", want, err)
		}
		got, err := db.Organizing(ctx, "acc-1")
		if err != nil {
			t.Fatalf("Organizing() error: %v", err)
		}
		if got != want {
			t.Errorf("Organizing() = %v, want %v", got, want)
		}
	}
}
