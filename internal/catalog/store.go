package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"log/slog"

	"contentbot/core/logger"
)

// Store persists the section/item tree. Every operation is a single
// statement (or a single read transaction for the pager), so the backing
// store's native guarantees make each call atomic.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an open sqlx handle.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// ListChildren returns sections whose parent matches parentID (nil means
// top level), ordered by (position, id).
func (s *Store) ListChildren(ctx context.Context, parentID *int64) ([]Section, error) {
	var (
		rows []Section
		err  error
	)
	if parentID == nil {
		err = s.db.SelectContext(ctx, &rows,
			`SELECT id, name, parent_id, position FROM sections WHERE parent_id IS NULL ORDER BY position, id`)
	} else {
		err = s.db.SelectContext(ctx, &rows, s.db.Rebind(
			`SELECT id, name, parent_id, position FROM sections WHERE parent_id = ? ORDER BY position, id`),
			*parentID)
	}
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	return rows, nil
}

// GetSection fetches one section by id, or ErrNotFound.
func (s *Store) GetSection(ctx context.Context, id int64) (*Section, error) {
	var sec Section
	err := s.db.GetContext(ctx, &sec, s.db.Rebind(
		`SELECT id, name, parent_id, position FROM sections WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get section %d: %w", id, err)
	}
	return &sec, nil
}

// CreateSection inserts a section under parentID (nil for top level) and
// returns the new id. The name must be non-empty after trimming; the
// parent, when given, must exist.
func (s *Store) CreateSection(ctx context.Context, name string, parentID *int64) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, invalid("name", "must not be empty")
	}
	if parentID != nil {
		if _, err := s.GetSection(ctx, *parentID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return 0, invalid("parent_id", "parent section does not exist")
			}
			return 0, err
		}
	}

	var id int64
	err := s.db.QueryRowxContext(ctx, s.db.Rebind(
		`INSERT INTO sections (name, parent_id, position) VALUES (?, ?, 0) RETURNING id`),
		name, parentID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create section: %w", err)
	}
	logger.Info(ctx, "service.catalog", "section.created",
		slog.Int64("section_id", id),
		slog.String("status", "ok"),
	)
	return id, nil
}

// RenameSection updates a section name in place. ErrNotFound when the id
// is unknown.
func (s *Store) RenameSection(ctx context.Context, id int64, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return invalid("name", "must not be empty")
	}
	res, err := s.db.ExecContext(ctx, s.db.Rebind(
		`UPDATE sections SET name = ? WHERE id = ?`), newName, id)
	if err != nil {
		return fmt.Errorf("rename section %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rename section %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	logger.Info(ctx, "service.catalog", "section.renamed",
		slog.Int64("section_id", id),
		slog.String("status", "ok"),
	)
	return nil
}

// DeleteSection removes a section together with all descendant sections and
// their items (FK cascade). An unknown id is a reported no-op: the bool
// result is false and err is nil.
func (s *Store) DeleteSection(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(
		`DELETE FROM sections WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("delete section %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete section %d: %w", id, err)
	}
	logger.Info(ctx, "service.catalog", "section.deleted",
		slog.Int64("section_id", id),
		slog.Bool("existed", affected > 0),
		slog.String("status", "ok"),
	)
	return affected > 0, nil
}

// ListItems returns every item of a section ordered by (position, id).
func (s *Store) ListItems(ctx context.Context, sectionID int64) ([]Item, error) {
	var rows []Item
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(
		`SELECT id, section_id, kind, body, file_id, caption, position
		   FROM items WHERE section_id = ? ORDER BY position, id`), sectionID)
	if err != nil {
		return nil, fmt.Errorf("list items of %d: %w", sectionID, err)
	}
	return rows, nil
}

// GetItemPage returns the item at the given page together with the
// effective page and the total count. The page saturates into
// [0, total-1], so out-of-range input never fails. When the section holds
// no items the item is nil and total is 0.
func (s *Store) GetItemPage(ctx context.Context, sectionID int64, page int) (*Item, int, int, error) {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, 0, 0, fmt.Errorf("item page of %d: %w", sectionID, err)
	}
	defer func() { _ = tx.Rollback() }()

	var total int
	if err := tx.GetContext(ctx, &total, tx.Rebind(
		`SELECT COUNT(*) FROM items WHERE section_id = ?`), sectionID); err != nil {
		return nil, 0, 0, fmt.Errorf("item page of %d: %w", sectionID, err)
	}
	if total == 0 {
		return nil, 0, 0, nil
	}

	if page < 0 {
		page = 0
	}
	if page > total-1 {
		page = total - 1
	}

	var item Item
	if err := tx.GetContext(ctx, &item, tx.Rebind(
		`SELECT id, section_id, kind, body, file_id, caption, position
		   FROM items WHERE section_id = ? ORDER BY position, id LIMIT 1 OFFSET ?`),
		sectionID, page); err != nil {
		return nil, 0, 0, fmt.Errorf("item page of %d: %w", sectionID, err)
	}
	return &item, page, total, nil
}

// CreateItem appends a content unit to a section. Text items need a
// non-empty body; every other kind needs a non-empty file id. The caption
// is ignored for text items.
func (s *Store) CreateItem(ctx context.Context, sectionID int64, kind Kind, body, fileID, caption *string) (int64, error) {
	if !kind.Valid() {
		return 0, invalid("kind", fmt.Sprintf("unsupported kind %q", kind))
	}
	if kind == KindText {
		if body == nil || strings.TrimSpace(*body) == "" {
			return 0, invalid("body", "text item needs a non-empty body")
		}
		fileID = nil
		caption = nil
	} else {
		if fileID == nil || strings.TrimSpace(*fileID) == "" {
			return 0, invalid("file_id", "media item needs a file id")
		}
		body = nil
	}
	if _, err := s.GetSection(ctx, sectionID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, invalid("section_id", "section does not exist")
		}
		return 0, err
	}

	var id int64
	err := s.db.QueryRowxContext(ctx, s.db.Rebind(
		`INSERT INTO items (section_id, kind, body, file_id, caption, position)
		 VALUES (?, ?, ?, ?, ?, 0) RETURNING id`),
		sectionID, kind, body, fileID, caption).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create item: %w", err)
	}
	logger.Info(ctx, "service.catalog", "item.created",
		slog.Int64("item_id", id),
		slog.Int64("section_id", sectionID),
		slog.String("kind", string(kind)),
		slog.String("status", "ok"),
	)
	return id, nil
}

// FindSectionByExactName returns the first section (lowest id) whose name
// matches exactly, or ErrNotFound. Used as the fallback lookup when the
// operator supplies a name instead of an id.
func (s *Store) FindSectionByExactName(ctx context.Context, name string) (*Section, error) {
	var sec Section
	err := s.db.GetContext(ctx, &sec, s.db.Rebind(
		`SELECT id, name, parent_id, position FROM sections WHERE name = ? ORDER BY id LIMIT 1`),
		name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find section by name: %w", err)
	}
	return &sec, nil
}
