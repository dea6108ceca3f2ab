package domain

// LeaderboardRow is one ranked city total. City is user-submitted text and
// must be escaped before it is rendered into markup.
type LeaderboardRow struct {
	City  string `json:"city"`
	Votes int64  `json:"votes"`
}
