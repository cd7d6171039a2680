package service

import (
	"fmt"
	"math"
	"simtrain_backend/internal/model"
	"sort"
	"time"
)

// StatsService folds session histories into report statistics. All methods
// are deterministic and side-effect free; malformed input (missing scores,
// missing parameters) is absorbed by exclusion rules, never returned as an
// error.
type StatsService struct{}

func NewStatsService() *StatsService {
	return &StatsService{}
}

// ComputeUserStats folds a session list into per-user statistics. Sessions
// without an overall score are excluded from the average (not counted as 0);
// a user with no scored sessions averages 0.
func (s *StatsService) ComputeUserStats(sessions []model.GameSession) *model.UserStats {
	stats := &model.UserStats{
		ByGameType: make(map[string]*model.GameTypeStats),
	}

	scoreSum := 0.0
	scoredCount := 0

	for _, session := range sessions {
		stats.GamesPlayed++
		if session.CaseSolved {
			stats.CasesCompleted++
		}
		stats.TotalPlaytime += session.ElapsedTime
		stats.TotalHints += session.HintsUsed

		if session.OverallScore != nil {
			scoreSum += *session.OverallScore
			scoredCount++
		}

		// Breakdown groups by the raw type key as recorded, not the
		// canonical catalog key.
		gt, ok := stats.ByGameType[session.GameType]
		if !ok {
			gt = &model.GameTypeStats{}
			stats.ByGameType[session.GameType] = gt
		}
		gt.Total++
		if session.CaseSolved {
			gt.Completed++
		}
		if session.OverallScore != nil {
			gt.TotalScore += *session.OverallScore
		}
	}

	if scoredCount > 0 {
		stats.AverageScore = roundTo2(scoreSum / float64(scoredCount))
	}
	if stats.GamesPlayed > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.CasesCompleted) / float64(stats.GamesPlayed) * 100))
	}
	for _, gt := range stats.ByGameType {
		gt.AvgScore = roundTo2(gt.TotalScore / float64(gt.Total))
	}

	return stats
}

// ComputeParameterAverages averages the three breakdown parameters per
// canonical game type. A session missing a given parameter is excluded from
// that parameter's mean only; a parameter that never appears averages 0.
func (s *StatsService) ComputeParameterAverages(sessions []model.GameSession) map[string]model.ParameterAverages {
	type accumulator struct {
		sum   [3]float64
		count [3]int
	}

	acc := make(map[string]*accumulator)
	for _, session := range sessions {
		if session.Breakdown == nil {
			continue
		}
		canonical := model.ResolveCanonicalType(session.GameType)
		a, ok := acc[canonical]
		if !ok {
			a = &accumulator{}
			acc[canonical] = a
		}
		for i, v := range []*float64{session.Breakdown.Parameter1, session.Breakdown.Parameter2, session.Breakdown.Parameter3} {
			if v != nil {
				a.sum[i] += *v
				a.count[i]++
			}
		}
	}

	out := make(map[string]model.ParameterAverages, len(acc))
	for canonical, a := range acc {
		avg := model.ParameterAverages{}
		if a.count[0] > 0 {
			avg.Param1 = a.sum[0] / float64(a.count[0])
		}
		if a.count[1] > 0 {
			avg.Param2 = a.sum[1] / float64(a.count[1])
		}
		if a.count[2] > 0 {
			avg.Param3 = a.sum[2] / float64(a.count[2])
		}
		out[canonical] = avg
	}
	return out
}

// ComputeOrganizationStats aggregates an organization's members. The
// activity window and clock are caller-supplied so both the 7-day and the
// 30-day call sites stay expressible and testable. The organization average
// is a mean of per-user averages over users with a nonzero average, not a
// mean over all individual sessions.
func (s *StatsService) ComputeOrganizationStats(users []model.User, sessionsByUser map[uint][]model.GameSession, windowDays int, now time.Time) *model.OrgStats {
	stats := &model.OrgStats{
		TotalUsers: len(users),
	}

	cutoff := now.AddDate(0, 0, -windowDays)
	avgSum := 0.0
	avgCount := 0

	for _, user := range users {
		if user.LastLogin != nil && user.LastLogin.After(cutoff) {
			stats.ActiveUsers++
		}

		userStats := s.ComputeUserStats(sessionsByUser[user.ID])
		stats.TotalGames += userStats.GamesPlayed
		stats.TotalCasesCompleted += userStats.CasesCompleted
		stats.TotalPlaytime += userStats.TotalPlaytime

		if userStats.AverageScore > 0 {
			avgSum += userStats.AverageScore
			avgCount++
		}
	}

	if avgCount > 0 {
		stats.AverageScore = roundTo2(avgSum / float64(avgCount))
	}
	if stats.TotalGames > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.TotalCasesCompleted) / float64(stats.TotalGames) * 100))
	}

	return stats
}

// ActiveGameTypes returns the canonical game types that appear in at least
// one session across all users, in fixed catalog order. Cataloged types come
// first; unknown (pass-through) types follow sorted by name so they still
// get columns and the order stays deterministic.
func (s *StatsService) ActiveGameTypes(sessionsByUser map[uint][]model.GameSession) []string {
	seen := make(map[string]bool)
	var unknown []string
	for _, sessions := range sessionsByUser {
		for _, session := range sessions {
			canonical := model.ResolveCanonicalType(session.GameType)
			if !seen[canonical] {
				seen[canonical] = true
				if model.ParameterLabelsFor(canonical) == nil {
					unknown = append(unknown, canonical)
				}
			}
		}
	}

	var active []string
	for _, canonical := range model.CatalogOrder() {
		if seen[canonical] {
			active = append(active, canonical)
		}
	}
	sort.Strings(unknown)
	active = append(active, unknown...)
	return active
}

// FormatDuration renders seconds as "1h 1m 1s", "1m 5s" or "0s" depending
// on magnitude.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, secs)
	}
	return fmt.Sprintf("%ds", secs)
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
