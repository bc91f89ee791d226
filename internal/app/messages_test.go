package app

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/lu-zhengda/tagside/internal/domain"
)

func TestMessageService_MarkRead(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	work, _ := svc.CreateTag(ctx, CreateTagRequest{Name: "Work"})
	if err := db.UpsertEmail(ctx, &domain.Email{ID: "m1", TagIDs: []int64{work.ID}}, "acc-1"); err != nil {
		t.Fatalf("UpsertEmail() error: %v", err)
	}
	msgs := NewMessageService(db, "acc-1")

	unread := func() int {
		t.Helper()
		_, regular, _, err := svc.Sidebar(ctx, "")
		if err != nil {
			t.Fatalf("Sidebar() error: %v", err)
		}
		return regular[0].Stats.New
	}
	if got := unread(); got != 1 {
		t.Fatalf("new before MarkRead = %d, want 1", got)
	}

	email, err := msgs.MarkRead(ctx, "m1", true)
	if err != nil {
		t.Fatalf("MarkRead() error: %v", err)
	}
	if !email.IsRead {
		t.Error("IsRead = false after MarkRead(true)")
	}
	if got := unread(); got != 0 {
		t.Errorf("new after MarkRead = %d, want 0", got)
	}

	if _, err := msgs.MarkRead(ctx, "m1", false); err != nil {
		t.Fatalf("MarkRead(false) error: %v", err)
	}
	if got := unread(); got != 1 {
		t.Errorf("new after MarkRead(false) = %d, want 1", got)
	}

	if _, err := msgs.MarkRead(ctx, "nope", true); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("MarkRead(unknown) error = %v, want sql.ErrNoRows", err)
	}
}

func TestMessageService_OtherAccount(t *testing.T) {
	_, db := newTestService(t)
	ctx := context.Background()
	if err := db.CreateAccount(ctx, &domain.Account{ID: "acc-2", Email: "other@example.com"}); err != nil {
		t.Fatalf("CreateAccount() error: %v", err)
	}
	if err := db.UpsertEmail(ctx, &domain.Email{ID: "theirs"}, "acc-2"); err != nil {
		t.Fatalf("UpsertEmail() error: %v", err)
	}

	msgs := NewMessageService(db, "acc-1")
	if _, err := msgs.MarkRead(ctx, "theirs", true); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("MarkRead(other account) error = %v, want sql.ErrNoRows", err)
	}
	if err := msgs.Delete(ctx, "theirs"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Delete(other account) error = %v, want sql.ErrNoRows", err)
	}
	if _, err := db.GetEmail(ctx, "theirs"); err != nil {
		t.Errorf("message of acc-2 should survive: %v", err)
	}
}

func TestMessageService_Delete(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	work, _ := svc.CreateTag(ctx, CreateTagRequest{Name: "Work"})
	if err := db.UpsertEmail(ctx, &domain.Email{ID: "m1", TagIDs: []int64{work.ID}}, "acc-1"); err != nil {
		t.Fatalf("UpsertEmail() error: %v", err)
	}
	msgs := NewMessageService(db, "acc-1")

	if err := msgs.Delete(ctx, "m1"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := db.GetEmail(ctx, "m1"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetEmail() after Delete error = %v, want sql.ErrNoRows", err)
	}
	_, regular, _, err := svc.Sidebar(ctx, "")
	if err != nil {
		t.Fatalf("Sidebar() error: %v", err)
	}
	if regular[0].Stats.All != 0 {
		t.Errorf("work all = %d after Delete, want 0", regular[0].Stats.All)
	}
	if err := msgs.Delete(ctx, "m1"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Delete() twice error = %v, want sql.ErrNoRows", err)
	}
}
