package database

import "database/sql"

// InsertSnapshot stores a raw fetch result for later offline reruns.
func (db *DB) InsertSnapshot(username, rawJSON string) (int64, error) {
	result, err := db.conn.Exec(
		"INSERT INTO snapshots (username, raw_json) VALUES (?, ?)",
		username, rawJSON,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetLatestSnapshot returns the most recent snapshot for a username, or nil.
func (db *DB) GetLatestSnapshot(username string) (*Snapshot, error) {
	row := db.conn.QueryRow(
		`SELECT id, username, raw_json, fetched_at
		FROM snapshots WHERE username = ? ORDER BY id DESC LIMIT 1`, username,
	)

	var s Snapshot
	if err := row.Scan(&s.ID, &s.Username, &s.RawJSON, &s.FetchedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// PruneSnapshots keeps only the most recent keep snapshots per username.
func (db *DB) PruneSnapshots(username string, keep int) error {
	_, err := db.conn.Exec(
		`DELETE FROM snapshots WHERE username = ? AND id NOT IN (
			SELECT id FROM snapshots WHERE username = ? ORDER BY id DESC LIMIT ?
		)`, username, username, keep,
	)
	return err
}
