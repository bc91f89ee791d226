package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lu-zhengda/tagside/internal/domain"
)

// UpsertEmail inserts or updates an email and its tag links.
func (s *DB) UpsertEmail(ctx context.Context, email *domain.Email, accountID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO emails (id, account_id, from_addr, from_name, subject, date, is_read)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			account_id = excluded.account_id,
			from_addr  = excluded.from_addr,
			from_name  = excluded.from_name,
			subject    = excluded.subject,
			date       = excluded.date,
			is_read    = excluded.is_read`,
		email.ID, accountID,
		email.From.Email, email.From.Name,
		email.Subject, email.Date.UTC(), email.IsRead,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert email: %w", err)
	}

	// Delete existing tags, then reinsert.
	if _, err := tx.ExecContext(ctx, `DELETE FROM email_tags WHERE email_id = ?`, email.ID); err != nil {
		return fmt.Errorf("failed to delete email tags: %w", err)
	}

	for _, tagID := range email.TagIDs {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO email_tags (email_id, tag_id) VALUES (?, ?)`,
			email.ID, tagID); err != nil {
			return fmt.Errorf("failed to insert email tag: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit email upsert: %w", err)
	}
	return nil
}

// GetEmail retrieves a single email by ID, including its tags.
func (s *DB) GetEmail(ctx context.Context, id string) (*domain.Email, error) {
	var e domain.Email
	var fromName sql.NullString
	var subject sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT id, account_id, from_addr, from_name, subject, date, is_read
		FROM emails WHERE id = ?`, id,
	).Scan(&e.ID, &e.AccountID, &e.From.Email, &fromName, &subject, &e.Date, &e.IsRead)
	if err != nil {
		return nil, fmt.Errorf("failed to get email %s: %w", id, err)
	}
	e.From.Name = fromName.String
	e.Subject = subject.String

	rows, err := s.db.QueryContext(ctx, `SELECT tag_id FROM email_tags WHERE email_id = ? ORDER BY tag_id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query email tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tagID int64
		if err := rows.Scan(&tagID); err != nil {
			return nil, fmt.Errorf("failed to scan email tag: %w", err)
		}
		e.TagIDs = append(e.TagIDs, tagID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate email tags: %w", err)
	}

	return &e, nil
}

// SetEmailRead updates the is_read flag for a single email.
func (s *DB) SetEmailRead(ctx context.Context, emailID string, read bool) error {
	_, err := s.db.ExecContext(ctx, `UPDATE emails SET is_read = ? WHERE id = ?`, read, emailID)
	if err != nil {
		return fmt.Errorf("failed to set email %s read=%v: %w", emailID, read, err)
	}
	return nil
}

// DeleteEmail removes an email by ID.
func (s *DB) DeleteEmail(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM emails WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete email %s: %w", id, err)
	}
	return nil
}
