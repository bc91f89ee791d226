package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lu-zhengda/tagside/internal/domain"
)

// CollapsedTags returns the IDs of tags whose subtag lists are hidden.
func (s *DB) CollapsedTags(ctx context.Context, accountID string) (domain.TagSet, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT tag_id FROM collapsed_tags WHERE account_id = ?`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list collapsed tags: %w", err)
	}
	defer rows.Close()

	set := domain.NewTagSet()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan collapsed tag: %w", err)
		}
		set.Add(id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate collapsed tags: %w", err)
	}
	return set, nil
}

// SetCollapsed records whether a tag's subtags are hidden.
func (s *DB) SetCollapsed(ctx context.Context, accountID string, tagID int64, collapsed bool) error {
	var err error
	if collapsed {
		_, err = s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO collapsed_tags (account_id, tag_id) VALUES (?, ?)`, accountID, tagID)
	} else {
		_, err = s.db.ExecContext(ctx,
			`DELETE FROM collapsed_tags WHERE account_id = ? AND tag_id = ?`, accountID, tagID)
	}
	if err != nil {
		return fmt.Errorf("failed to set tag %d collapsed=%v: %w", tagID, collapsed, err)
	}
	return nil
}

// Organizing reports whether the sidebar is in organize mode. Accounts
// without saved state are not organizing.
func (s *DB) Organizing(ctx context.Context, accountID string) (bool, error) {
	var on bool
	err := s.db.QueryRowContext(ctx,
		`SELECT organizing FROM view_state WHERE account_id = ?`, accountID,
	).Scan(&on)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get view state for %s: %w", accountID, err)
	}
	return on, nil
}

// SetOrganizing inserts or updates the organize flag for an account.
func (s *DB) SetOrganizing(ctx context.Context, accountID string, on bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO view_state (account_id, organizing)
		VALUES (?, ?)
		ON CONFLICT(account_id) DO UPDATE SET
			organizing = excluded.organizing`,
		accountID, on,
	)
	if err != nil {
		return fmt.Errorf("failed to set view state for %s: %w", accountID, err)
	}
	return nil
}
