package service

import (
	"simtrain_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func scoredSession(gameType string, score float64, solved bool) model.GameSession {
	return model.GameSession{
		GameType:     gameType,
		CaseSolved:   solved,
		OverallScore: fptr(score),
	}
}

func TestComputeUserStatsRounding(t *testing.T) {
	s := NewStatsService()

	stats := s.ComputeUserStats([]model.GameSession{
		scoredSession("quick", 80.5, true),
		scoredSession("quick", 90.25, false),
		scoredSession("quick", 70.25, false),
	})

	// 241.0 / 3 = 80.333... rounds to two decimals
	assert.Equal(t, 80.33, stats.AverageScore)
	assert.Equal(t, 3, stats.GamesPlayed)
	assert.Equal(t, 1, stats.CasesCompleted)
	// 1/3 = 33.3% rounds to integer
	assert.Equal(t, 33, stats.CompletionRate)
}

func TestComputeUserStatsExcludesMissingScores(t *testing.T) {
	s := NewStatsService()

	unscored := model.GameSession{GameType: "quick", ElapsedTime: 120, HintsUsed: 2}
	stats := s.ComputeUserStats([]model.GameSession{
		scoredSession("quick", 80, true),
		unscored,
	})

	// the unscored session counts toward play totals but not the average
	assert.Equal(t, 2, stats.GamesPlayed)
	assert.Equal(t, 80.0, stats.AverageScore)
	assert.Equal(t, 120, stats.TotalPlaytime)
	assert.Equal(t, 2, stats.TotalHints)
}

func TestComputeUserStatsNoScoredSessions(t *testing.T) {
	s := NewStatsService()

	stats := s.ComputeUserStats([]model.GameSession{
		{GameType: "quick"},
	})
	assert.Equal(t, 0.0, stats.AverageScore)

	empty := s.ComputeUserStats(nil)
	assert.Equal(t, 0, empty.GamesPlayed)
	assert.Equal(t, 0, empty.CompletionRate)
	assert.Equal(t, 0.0, empty.AverageScore)
}

func TestComputeUserStatsGroupsByRawType(t *testing.T) {
	s := NewStatsService()

	// "quick" and "detective" resolve to the same canonical type but the
	// per-type breakdown keeps them apart, keyed as recorded.
	stats := s.ComputeUserStats([]model.GameSession{
		scoredSession("quick", 80, true),
		scoredSession("detective", 60, false),
	})

	require.Len(t, stats.ByGameType, 2)
	assert.Equal(t, 80.0, stats.ByGameType["quick"].AvgScore)
	assert.Equal(t, 60.0, stats.ByGameType["detective"].AvgScore)
	assert.Equal(t, 1, stats.ByGameType["quick"].Completed)
}

func TestComputeParameterAveragesExcludesMissing(t *testing.T) {
	s := NewStatsService()

	sessions := []model.GameSession{
		{
			GameType:  "quick",
			Breakdown: &model.ScoreBreakdown{Parameter1: fptr(8.0), Parameter2: fptr(6.0)},
		},
		{
			// same canonical type under another raw key; Parameter1 absent
			GameType:  "detective",
			Breakdown: &model.ScoreBreakdown{Parameter2: fptr(4.0), Parameter3: fptr(10.0)},
		},
		{GameType: "quick"}, // no breakdown at all
	}

	avgs := s.ComputeParameterAverages(sessions)
	require.Len(t, avgs, 1)

	avg := avgs[model.DetectiveSimulation]
	// one value of 8.0, not (8.0+0)/2
	assert.Equal(t, 8.0, avg.Param1)
	assert.Equal(t, 5.0, avg.Param2)
	assert.Equal(t, 10.0, avg.Param3)
}

func TestComputeOrganizationStats(t *testing.T) {
	s := NewStatsService()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	recent := now.AddDate(0, 0, -2)
	stale := now.AddDate(0, 0, -40)

	users := []model.User{
		{BaseModel: model.BaseModel{ID: 1}, LastLogin: &recent},
		{BaseModel: model.BaseModel{ID: 2}, LastLogin: &stale},
		{BaseModel: model.BaseModel{ID: 3}},
	}
	sessionsByUser := map[uint][]model.GameSession{
		1: {scoredSession("quick", 100, true)},
		2: {{GameType: "quick"}}, // played but never scored
	}

	stats := s.ComputeOrganizationStats(users, sessionsByUser, 30, now)

	assert.Equal(t, 3, stats.TotalUsers)
	assert.Equal(t, 1, stats.ActiveUsers)
	assert.Equal(t, 2, stats.TotalGames)
	assert.Equal(t, 1, stats.TotalCasesCompleted)
	// mean over users with a nonzero average: 100, not (100+0)/2
	assert.Equal(t, 100.0, stats.AverageScore)
	assert.Equal(t, 50, stats.CompletionRate)
}

func TestComputeOrganizationStatsWindow(t *testing.T) {
	s := NewStatsService()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tenDaysAgo := now.AddDate(0, 0, -10)
	users := []model.User{{BaseModel: model.BaseModel{ID: 1}, LastLogin: &tenDaysAgo}}

	assert.Equal(t, 0, s.ComputeOrganizationStats(users, nil, 7, now).ActiveUsers)
	assert.Equal(t, 1, s.ComputeOrganizationStats(users, nil, 30, now).ActiveUsers)
}

func TestActiveGameTypes(t *testing.T) {
	s := NewStatsService()

	sessionsByUser := map[uint][]model.GameSession{
		1: {
			{GameType: "hospital"},
			{GameType: "ZEBRA_SIMULATION"},
			{GameType: "quick"},
		},
		2: {
			{GameType: "detective"}, // same canonical as "quick"
			{GameType: "ALPHA_SIMULATION"},
		},
	}

	active := s.ActiveGameTypes(sessionsByUser)

	// catalog order first, then unknown pass-through types sorted by name
	assert.Equal(t, []string{
		model.DetectiveSimulation,
		model.HospitalCrisisSimulation,
		"ALPHA_SIMULATION",
		"ZEBRA_SIMULATION",
	}, active)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{3661, "1h 1m 1s"},
		{7200, "2h 0m 0s"},
		{65, "1m 5s"},
		{60, "1m 0s"},
		{59, "59s"},
		{0, "0s"},
		{-5, "0s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.seconds), "seconds=%d", tt.seconds)
	}
}
