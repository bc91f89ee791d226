package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lu-zhengda/tagside/internal/domain"
)

const tagColumns = `t.id, t.account_id, t.parent_id, t.slug, t.name, t.icon, t.label_color, t.display, t.display_order`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTag(row rowScanner, extra ...any) (domain.Tag, error) {
	var t domain.Tag
	var parentID sql.NullInt64
	dest := append([]any{
		&t.ID, &t.AccountID, &parentID, &t.Slug, &t.Name, &t.Icon, &t.LabelColor, &t.Display, &t.DisplayOrder,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return domain.Tag{}, err
	}
	t.ParentID = parentID.Int64
	return t, nil
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

// CreateTag inserts a tag and sets its ID.
func (s *DB) CreateTag(ctx context.Context, tag *domain.Tag) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (account_id, parent_id, slug, name, icon, label_color, display, display_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tag.AccountID, nullID(tag.ParentID), tag.Slug, tag.Name, tag.Icon, tag.LabelColor, tag.Display, tag.DisplayOrder,
	)
	if err != nil {
		return fmt.Errorf("failed to create tag %s: %w", tag.Slug, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read tag id: %w", err)
	}
	tag.ID = id
	return nil
}

// GetTag returns one tag without stats or subtags.
func (s *DB) GetTag(ctx context.Context, accountID string, id int64) (*domain.Tag, error) {
	t, err := scanTag(s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags t WHERE t.account_id = ? AND t.id = ?`, accountID, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get tag %d: %w", id, err)
	}
	return &t, nil
}

// GetTagBySlug returns one tag without stats or subtags.
func (s *DB) GetTagBySlug(ctx context.Context, accountID, slug string) (*domain.Tag, error) {
	t, err := scanTag(s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags t WHERE t.account_id = ? AND t.slug = ?`, accountID, slug))
	if err != nil {
		return nil, fmt.Errorf("failed to get tag %s: %w", slug, err)
	}
	return &t, nil
}

// ListTags returns every tag of an account as a flat list in display order.
func (s *DB) ListTags(ctx context.Context, accountID string) ([]domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags t WHERE t.account_id = ? ORDER BY t.display_order, t.id`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}
	return tags, nil
}

// TagTree returns the top-level tags with the given display mode, in
// display order, each with its subtags and message stats. Invisible
// subtags are left out. SumNew is only filled for tags with subtags.
func (s *DB) TagTree(ctx context.Context, accountID string, display domain.Display) ([]domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tagColumns+`,
			COUNT(e.id) AS all_count,
			COALESCE(SUM(CASE WHEN e.id IS NOT NULL AND NOT e.is_read THEN 1 ELSE 0 END), 0) AS new_count
		FROM tags t
		LEFT JOIN email_tags et ON et.tag_id = t.id
		LEFT JOIN emails e ON e.id = et.email_id
		WHERE t.account_id = ?
		GROUP BY t.id
		ORDER BY t.display_order, t.id`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tag tree: %w", err)
	}
	defer rows.Close()

	var all []domain.Tag
	for rows.Next() {
		var stats domain.Stats
		t, err := scanTag(rows, &stats.All, &stats.New)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tag tree row: %w", err)
		}
		t.Stats = stats
		all = append(all, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tag tree: %w", err)
	}

	children := make(map[int64][]domain.Tag)
	for _, t := range all {
		if t.ParentID != 0 && t.Display != domain.DisplayInvisible {
			children[t.ParentID] = append(children[t.ParentID], t)
		}
	}

	var tree []domain.Tag
	for _, t := range all {
		if t.ParentID != 0 || t.Display != display {
			continue
		}
		if subs := children[t.ID]; len(subs) > 0 {
			t.Subtags = subs
			t.Stats.SumNew = t.Stats.New
			for _, sub := range subs {
				t.Stats.SumNew += sub.Stats.New
			}
		}
		tree = append(tree, t)
	}
	return tree, nil
}

// UpdateTag rewrites a tag's mutable fields.
func (s *DB) UpdateTag(ctx context.Context, tag *domain.Tag) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tags SET parent_id = ?, slug = ?, name = ?, icon = ?, label_color = ?, display = ?, display_order = ?
		WHERE account_id = ? AND id = ?`,
		nullID(tag.ParentID), tag.Slug, tag.Name, tag.Icon, tag.LabelColor, tag.Display, tag.DisplayOrder,
		tag.AccountID, tag.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update tag %d: %w", tag.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("tag %d not found: %w", tag.ID, sql.ErrNoRows)
	}
	return nil
}

// SetDisplayOrder assigns display_order 0..n-1 to ids in the given order.
func (s *DB) SetDisplayOrder(ctx context.Context, accountID string, ids []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, id := range ids {
		res, err := tx.ExecContext(ctx,
			`UPDATE tags SET display_order = ? WHERE account_id = ? AND id = ?`, i, accountID, id)
		if err != nil {
			return fmt.Errorf("failed to reorder tag %d: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("tag %d not found: %w", id, sql.ErrNoRows)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reorder: %w", err)
	}
	return nil
}

// NextDisplayOrder returns the display_order that appends a tag after its
// siblings. parentID 0 means top level.
func (s *DB) NextDisplayOrder(ctx context.Context, accountID string, parentID int64) (int, error) {
	var next int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(display_order) + 1, 0) FROM tags WHERE account_id = ? AND parent_id IS ?`,
		accountID, nullID(parentID),
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to compute display order: %w", err)
	}
	return next, nil
}

// DeleteTag removes a tag. Its subtags and message links go with it.
func (s *DB) DeleteTag(ctx context.Context, accountID string, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE account_id = ? AND id = ?`, accountID, id)
	if err != nil {
		return fmt.Errorf("failed to delete tag %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("tag %d not found: %w", id, sql.ErrNoRows)
	}
	return nil
}
