package database

import "database/sql"

// InsertReport stores a persona report, replacing any previous report
// for the same username.
func (db *DB) InsertReport(username, reportMarkdown string, postCount, commentCount int) (int64, error) {
	result, err := db.conn.Exec(
		`INSERT OR REPLACE INTO reports (username, report_markdown, post_count, comment_count)
		VALUES (?, ?, ?, ?)`,
		username, reportMarkdown, postCount, commentCount,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetReport returns the stored report for a username, or nil.
func (db *DB) GetReport(username string) (*Report, error) {
	row := db.conn.QueryRow(
		`SELECT id, username, report_markdown, post_count, comment_count, generated_at
		FROM reports WHERE username = ?`, username,
	)

	var r Report
	if err := row.Scan(&r.ID, &r.Username, &r.ReportMarkdown,
		&r.PostCount, &r.CommentCount, &r.GeneratedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

// GetAllReports returns all stored reports, most recent first.
func (db *DB) GetAllReports() ([]Report, error) {
	rows, err := db.conn.Query(
		`SELECT id, username, report_markdown, post_count, comment_count, generated_at
		FROM reports ORDER BY generated_at DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var r Report
		if err := rows.Scan(&r.ID, &r.Username, &r.ReportMarkdown,
			&r.PostCount, &r.CommentCount, &r.GeneratedAt); err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// DeleteReport removes the stored report for a username.
func (db *DB) DeleteReport(username string) error {
	_, err := db.conn.Exec("DELETE FROM reports WHERE username = ?", username)
	return err
}

// GetStats returns aggregate database statistics.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{}

	queries := []struct {
		sql  string
		dest *int
	}{
		{"SELECT COUNT(*) FROM reports", &s.Reports},
		{"SELECT COUNT(*) FROM snapshots", &s.Snapshots},
		{"SELECT COUNT(DISTINCT username) FROM snapshots", &s.Users},
	}

	for _, q := range queries {
		if err := db.conn.QueryRow(q.sql).Scan(q.dest); err != nil {
			return nil, err
		}
	}

	return s, nil
}
