package entity

// LeaderboardEntry - one win tally, keyed by exact (case-sensitive) name.
type LeaderboardEntry struct {
	Name string `json:"name"`
	Wins int    `json:"wins"`
}
