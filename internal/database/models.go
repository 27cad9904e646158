package database

// Report is a stored persona report for one username.
type Report struct {
	ID             int64
	Username       string
	ReportMarkdown string
	PostCount      int
	CommentCount   int
	GeneratedAt    *string
}

// Snapshot is one raw fetch result, kept so reports can be regenerated
// without hitting the network again.
type Snapshot struct {
	ID        int64
	Username  string
	RawJSON   string
	FetchedAt *string
}

// Stats contains aggregate database statistics.
type Stats struct {
	Reports   int
	Snapshots int
	Users     int
}
