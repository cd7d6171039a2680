package model

// GameTypeStats is the per-raw-gameType slice of a user's statistics.
type GameTypeStats struct {
	Total      int     `json:"total"`
	Completed  int     `json:"completed"`
	TotalScore float64 `json:"totalScore"`
	AvgScore   float64 `json:"avgScore"`
}

// UserStats are recomputed from the session history on every report request
// and never persisted.
type UserStats struct {
	GamesPlayed    int                       `json:"gamesPlayed"`
	CasesCompleted int                       `json:"casesCompleted"`
	CompletionRate int                       `json:"completionRate"` // percent, rounded
	AverageScore   float64                   `json:"averageScore"`   // percent, 2 decimals
	TotalPlaytime  int                       `json:"totalPlaytime"`  // seconds
	TotalHints     int                       `json:"totalHints"`
	ByGameType     map[string]*GameTypeStats `json:"byGameType"`
}

// ParameterAverages holds the per-parameter means of one canonical game
// type for one user. A parameter that never appears reports 0.
type ParameterAverages struct {
	Param1 float64 `json:"param1"`
	Param2 float64 `json:"param2"`
	Param3 float64 `json:"param3"`
}

// OrgStats aggregate an organization's members.
type OrgStats struct {
	TotalUsers          int     `json:"totalUsers"`
	ActiveUsers         int     `json:"activeUsers"`
	TotalGames          int     `json:"totalGames"`
	TotalCasesCompleted int     `json:"totalCasesCompleted"`
	AverageScore        float64 `json:"averageScore"` // mean of per-user nonzero averages
	TotalPlaytime       int     `json:"totalPlaytime"`
	CompletionRate      int     `json:"completionRate"`
}
