package domain

// QuotaCounter tracks per-user message counts. DailyCount only applies to
// WindowDate (a calendar day in the reference timezone); a stale window is
// treated as zero without being physically reset until the next write.
// Counters are created lazily and never deleted.
type QuotaCounter struct {
	UserID        int64
	DailyCount    int
	LifetimeCount int
	WindowDate    string // "2006-01-02" in the reference timezone
}
