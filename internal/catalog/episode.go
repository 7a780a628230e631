package catalog

import (
	"fmt"
	"sort"
)

// ReplaceEpisodes replaces the full episode list for an entry.
func (s *Store) ReplaceEpisodes(entryID int64, episodes []*Episode) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := replaceEpisodes(tx, entryID, episodes); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit episodes: %w", err)
	}
	return nil
}

func replaceEpisodes(q querier, entryID int64, episodes []*Episode) error {
	if _, err := q.Exec("DELETE FROM episodes WHERE entry_id = ?", entryID); err != nil {
		return fmt.Errorf("clear episodes: %w", mapSQLiteError(err))
	}
	for _, ep := range episodes {
		ep.EntryID = entryID
		result, err := q.Exec(`
			INSERT INTO episodes (entry_id, season, episode, title, url)
			VALUES (?, ?, ?, ?, ?)`,
			ep.EntryID, ep.Season, ep.Episode, ep.Title, ep.URL,
		)
		if err != nil {
			return fmt.Errorf("insert episode: %w", mapSQLiteError(err))
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("get last insert id: %w", err)
		}
		ep.ID = id
	}
	return nil
}

func listEpisodes(q querier, entryID int64) ([]*Episode, error) {
	rows, err := q.Query(`
		SELECT id, entry_id, season, episode, title, url
		FROM episodes WHERE entry_id = ? ORDER BY season, episode`, entryID)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var episodes []*Episode
	for rows.Next() {
		ep := &Episode{}
		if err := rows.Scan(&ep.ID, &ep.EntryID, &ep.Season, &ep.Episode, &ep.Title, &ep.URL); err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		episodes = append(episodes, ep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate episodes: %w", err)
	}
	return episodes, nil
}

// Season groups a run of episodes sharing a season number.
type Season struct {
	Number   int
	Episodes []*Episode
}

// GroupBySeason splits an ordered episode list into seasons, ascending.
func GroupBySeason(episodes []*Episode) []Season {
	byNumber := make(map[int][]*Episode)
	for _, ep := range episodes {
		byNumber[ep.Season] = append(byNumber[ep.Season], ep)
	}

	numbers := make([]int, 0, len(byNumber))
	for n := range byNumber {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	seasons := make([]Season, 0, len(numbers))
	for _, n := range numbers {
		eps := byNumber[n]
		sort.Slice(eps, func(i, j int) bool { return eps[i].Episode < eps[j].Episode })
		seasons = append(seasons, Season{Number: n, Episodes: eps})
	}
	return seasons
}
