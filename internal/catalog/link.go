package catalog

import (
	"fmt"
)

// ReplaceLinks replaces the full set of playback links for an entry.
func (s *Store) ReplaceLinks(entryID int64, links []*Link) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := replaceLinks(tx, entryID, links); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit links: %w", err)
	}
	return nil
}

func replaceLinks(q querier, entryID int64, links []*Link) error {
	if _, err := q.Exec("DELETE FROM links WHERE entry_id = ?", entryID); err != nil {
		return fmt.Errorf("clear links: %w", mapSQLiteError(err))
	}
	for i, l := range links {
		l.EntryID = entryID
		l.Position = i
		result, err := q.Exec(`
			INSERT INTO links (entry_id, position, quality, url, download_url)
			VALUES (?, ?, ?, ?, ?)`,
			l.EntryID, l.Position, l.Quality, l.URL, l.DownloadURL,
		)
		if err != nil {
			return fmt.Errorf("insert link: %w", mapSQLiteError(err))
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("get last insert id: %w", err)
		}
		l.ID = id
	}
	return nil
}

func listLinks(q querier, entryID int64) ([]*Link, error) {
	rows, err := q.Query(`
		SELECT id, entry_id, position, quality, url, download_url
		FROM links WHERE entry_id = ? ORDER BY position`, entryID)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var links []*Link
	for rows.Next() {
		l := &Link{}
		if err := rows.Scan(&l.ID, &l.EntryID, &l.Position, &l.Quality, &l.URL, &l.DownloadURL); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate links: %w", err)
	}
	return links, nil
}
