package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/lu-zhengda/tagside/internal/domain"
	"github.com/lu-zhengda/tagside/internal/store"
)

// MessageService changes the messages of a single account. Tag counts pick
// up every change on the next sidebar load.
type MessageService struct {
	store     store.Store
	accountID string
}

func NewMessageService(s store.Store, accountID string) *MessageService {
	return &MessageService{store: s, accountID: accountID}
}

func (s *MessageService) get(ctx context.Context, id string) (*domain.Email, error) {
	email, err := s.store.GetEmail(ctx, id)
	if err != nil {
		return nil, err
	}
	if email.AccountID != s.accountID {
		return nil, fmt.Errorf("message %s not found: %w", id, sql.ErrNoRows)
	}
	return email, nil
}

// MarkRead sets the read flag of a message and returns the message as
// stored afterwards.
func (s *MessageService) MarkRead(ctx context.Context, id string, read bool) (*domain.Email, error) {
	email, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if email.IsRead == read {
		return email, nil
	}
	if err := s.store.SetEmailRead(ctx, id, read); err != nil {
		return nil, err
	}
	email.IsRead = read
	log.Printf("[messages] marked %s read=%v for account %s", id, read, s.accountID)
	return email, nil
}

// Delete removes a message and its tag links.
func (s *MessageService) Delete(ctx context.Context, id string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteEmail(ctx, id); err != nil {
		return err
	}
	log.Printf("[messages] deleted %s for account %s", id, s.accountID)
	return nil
}
