package catalog

import (
	"fmt"
	"strings"
	"time"
)

// AddEntry inserts a new entry with its categories, links, and episodes.
// Sets ID, CreatedAt, and UpdatedAt on the struct.
func (s *Store) AddEntry(e *Entry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	result, err := tx.Exec(`
		INSERT INTO entries (type, title, description, poster, backdrop, language, views, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Type, e.Title, e.Description, e.Poster, e.Backdrop, e.Language, e.Views, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert entry: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	e.ID = id

	if err := replaceCategories(tx, e.ID, e.Categories); err != nil {
		return err
	}
	if err := replaceLinks(tx, e.ID, e.Links); err != nil {
		return err
	}
	if err := replaceEpisodes(tx, e.ID, e.Episodes); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit entry: %w", err)
	}
	e.CreatedAt = now
	e.UpdatedAt = now
	return nil
}

// GetEntry retrieves an entry by ID with its categories, links, and episodes.
// Returns ErrNotFound if the entry does not exist.
func (s *Store) GetEntry(id int64) (*Entry, error) {
	e := &Entry{}
	err := s.db.QueryRow(`
		SELECT id, type, title, description, poster, backdrop, language, views, created_at, updated_at
		FROM entries WHERE id = ?`, id,
	).Scan(&e.ID, &e.Type, &e.Title, &e.Description, &e.Poster, &e.Backdrop, &e.Language, &e.Views, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get entry %d: %w", id, mapSQLiteError(err))
	}

	if e.Categories, err = listCategories(s.db, id); err != nil {
		return nil, err
	}
	if e.Links, err = listLinks(s.db, id); err != nil {
		return nil, err
	}
	if e.Episodes, err = listEpisodes(s.db, id); err != nil {
		return nil, err
	}
	return e, nil
}

// ListEntries returns entries matching the filter with pagination.
// Categories are loaded for each entry; links and episodes are not.
// Returns (results, totalCount, error).
func (s *Store) ListEntries(f Filter) ([]*Entry, int, error) {
	var conditions []string
	var args []any

	if f.Type != nil {
		conditions = append(conditions, "type = ?")
		args = append(args, *f.Type)
	}
	if f.Language != nil {
		conditions = append(conditions, "language = ?")
		args = append(args, *f.Language)
	}
	if f.Category != nil {
		conditions = append(conditions, "EXISTS (SELECT 1 FROM entry_categories ec WHERE ec.entry_id = entries.id AND ec.category = ?)")
		args = append(args, *f.Category)
	}
	if f.Query != nil {
		conditions = append(conditions, `title LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(*f.Query)+"%")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM entries "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	query := "SELECT id, type, title, description, poster, backdrop, language, views, created_at, updated_at FROM entries " + whereClause + orderClause(f.Sort)
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.ID, &e.Type, &e.Title, &e.Description, &e.Poster, &e.Backdrop, &e.Language, &e.Views, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan entry: %w", err)
		}
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate entries: %w", err)
	}

	for _, e := range results {
		if e.Categories, err = listCategories(s.db, e.ID); err != nil {
			return nil, 0, err
		}
	}

	return results, total, nil
}

// UpdateEntry updates an existing entry's scalar fields and categories.
// Links and episodes are replaced separately via ReplaceLinks/ReplaceEpisodes.
// Sets UpdatedAt on the struct. Returns ErrNotFound if the entry does not exist.
func (s *Store) UpdateEntry(e *Entry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	result, err := tx.Exec(`
		UPDATE entries SET type = ?, title = ?, description = ?, poster = ?, backdrop = ?, language = ?, updated_at = ?
		WHERE id = ?`,
		e.Type, e.Title, e.Description, e.Poster, e.Backdrop, e.Language, now, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update entry %d: %w", e.ID, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update entry %d: %w", e.ID, ErrNotFound)
	}

	if err := replaceCategories(tx, e.ID, e.Categories); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit entry update: %w", err)
	}
	e.UpdatedAt = now
	return nil
}

// DeleteEntry removes an entry by ID along with its categories, links, and
// episodes. Deletion is immediate and permanent; there is no soft delete.
// This operation is idempotent - no error is returned if the entry does not exist.
func (s *Store) DeleteEntry(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Child rows first; the schema cascades are a backstop, not a requirement.
	for _, stmt := range []string{
		"DELETE FROM entry_categories WHERE entry_id = ?",
		"DELETE FROM links WHERE entry_id = ?",
		"DELETE FROM episodes WHERE entry_id = ?",
		"DELETE FROM entries WHERE id = ?",
	} {
		if _, err := tx.Exec(stmt, id); err != nil {
			return fmt.Errorf("delete entry %d: %w", id, mapSQLiteError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit entry delete: %w", err)
	}
	return nil
}

// IncrementViews bumps the view counter for an entry. Last-writer-wins is
// acceptable here; the counter is informational.
func (s *Store) IncrementViews(id int64) error {
	_, err := s.db.Exec("UPDATE entries SET views = views + 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("increment views %d: %w", id, mapSQLiteError(err))
	}
	return nil
}

func orderClause(sort string) string {
	switch sort {
	case SortNewest:
		return " ORDER BY created_at DESC, id DESC"
	case SortViews:
		return " ORDER BY views DESC, title COLLATE NOCASE"
	default:
		return " ORDER BY title COLLATE NOCASE"
	}
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

func listCategories(q querier, entryID int64) ([]string, error) {
	rows, err := q.Query("SELECT category FROM entry_categories WHERE entry_id = ? ORDER BY category", entryID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

func replaceCategories(q querier, entryID int64, categories []string) error {
	if _, err := q.Exec("DELETE FROM entry_categories WHERE entry_id = ?", entryID); err != nil {
		return fmt.Errorf("clear categories: %w", mapSQLiteError(err))
	}
	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		if _, err := q.Exec("INSERT INTO entry_categories (entry_id, category) VALUES (?, ?)", entryID, c); err != nil {
			return fmt.Errorf("insert category: %w", mapSQLiteError(err))
		}
	}
	return nil
}
