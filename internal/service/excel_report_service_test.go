package service

import (
	"bytes"
	"regexp"
	"simtrain_backend/internal/model"
	"simtrain_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParameterMergeRegions(t *testing.T) {
	regions := ParameterMergeRegions(1, 7, 3)
	require.Len(t, regions, 3)

	assert.Equal(t, MergeRegion{Row: 1, ColStart: 7, ColEnd: 9}, regions[0])
	assert.Equal(t, MergeRegion{Row: 1, ColStart: 10, ColEnd: 12}, regions[1])
	assert.Equal(t, MergeRegion{Row: 1, ColStart: 13, ColEnd: 15}, regions[2])

	assert.Empty(t, ParameterMergeRegions(1, 7, 0))
}

func TestReportFilename(t *testing.T) {
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "Jane_Doe_Report_2026-08-28.xlsx", reportFilename("Jane Doe", "Report", "xlsx", now))
	assert.Equal(t, "Acme_Corp_OrgReport_2026-08-28.pdf", reportFilename("Acme Corp", "OrgReport", "pdf", now))
}

func userReportFixture() *UserReportData {
	user := &model.User{Name: "Jane Doe", Email: "jane@example.com", Role: model.Player}
	user.CreatedAt = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	sessions := []model.GameSession{
		{
			GameType:     "quick",
			CaseTitle:    "The Missing Ledger",
			CaseSolved:   true,
			StartedAt:    time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC),
			ElapsedTime:  340,
			HintsUsed:    1,
			OverallScore: fptr(82),
			Breakdown: &model.ScoreBreakdown{
				Parameter1:     fptr(8),
				Parameter1Name: "Critical Thinking",
				Parameter2:     fptr(7.5),
				Parameter2Name: "Evidence Analysis",
				Parameter3:     fptr(9),
				Parameter3Name: "Intuition",
				Overall:        fptr(82),
			},
		},
		{
			GameType:  "hospital",
			CaseTitle: "Night Shift Overload",
			StartedAt: time.Date(2026, 2, 2, 14, 0, 0, 0, time.UTC),
		},
	}

	stats := NewStatsService().ComputeUserStats(sessions)
	return &UserReportData{Profile: user, Stats: stats, GameHistory: sessions}
}

func TestGenerateUserReportWorkbook(t *testing.T) {
	svc := NewExcelReportService(NewStatsService())

	file, err := svc.GenerateUserReport(userReportFixture())
	require.NoError(t, err)
	require.NotNil(t, file)

	assert.Regexp(t, regexp.MustCompile(`^Jane_Doe_Report_\d{4}-\d{2}-\d{2}\.xlsx$`), file.Filename)
	assert.Equal(t, util.MimeXLSX, file.ContentType)

	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Profile", "Summary", "Game History", "Performance"}, f.GetSheetList())

	name, err := f.GetCellValue("Profile", "B3")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", name)

	// missing breakdown fields render as N/A, present ones as "Label: v/10"
	param, err := f.GetCellValue("Game History", "I4")
	require.NoError(t, err)
	assert.Equal(t, "Critical Thinking: 8/10", param)

	missing, err := f.GetCellValue("Game History", "I5")
	require.NoError(t, err)
	assert.Equal(t, "N/A", missing)

	hints, err := f.GetCellValue("Summary", "B9")
	require.NoError(t, err)
	assert.Equal(t, "1", hints)
}

func TestGenerateOrganizationReportWorkbook(t *testing.T) {
	svc := NewExcelReportService(NewStatsService())

	org := &model.Organization{Name: "Acme Corp"}
	member := model.User{Name: "Jane Doe", Email: "jane@example.com"}
	member.ID = 1

	sessionsByUser := map[uint][]model.GameSession{
		1: {
			{
				GameType:     "quick",
				CaseSolved:   true,
				OverallScore: fptr(82),
				Breakdown:    &model.ScoreBreakdown{Parameter1: fptr(8), Parameter2: fptr(7), Parameter3: fptr(9)},
			},
			{GameType: "hospital"},
		},
	}
	stats := NewStatsService().ComputeOrganizationStats([]model.User{member}, sessionsByUser, 30, time.Now())

	file, err := svc.GenerateOrganizationReport(&OrgReportData{
		Organization:   org,
		Members:        []model.User{member},
		SessionsByUser: sessionsByUser,
		Stats:          stats,
		WindowDays:     30,
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Overview", "Users"}, f.GetSheetList())

	// two active game types, one three-column merge each, starting at H1
	merges, err := f.GetMergeCells("Users")
	require.NoError(t, err)
	require.Len(t, merges, 2)
	assert.Equal(t, "H1", merges[0].GetStartAxis())
	assert.Equal(t, "J1", merges[0].GetEndAxis())
	assert.Equal(t, "K1", merges[1].GetStartAxis())
	assert.Equal(t, "M1", merges[1].GetEndAxis())

	header, err := f.GetCellValue("Users", "H1")
	require.NoError(t, err)
	assert.Equal(t, "Detective Simulation", header)

	label, err := f.GetCellValue("Users", "H2")
	require.NoError(t, err)
	assert.Equal(t, "Critical Thinking", label)

	// data rows render parameter averages with one decimal, zero when unplayed
	p1, err := f.GetCellValue("Users", "H3")
	require.NoError(t, err)
	assert.Equal(t, "8.0", p1)

	unplayed, err := f.GetCellValue("Users", "K3")
	require.NoError(t, err)
	assert.Equal(t, "0.0", unplayed)
}

func TestGenerateOrganizationReportNoSessions(t *testing.T) {
	svc := NewExcelReportService(NewStatsService())

	org := &model.Organization{Name: "Empty Org"}
	file, err := svc.GenerateOrganizationReport(&OrgReportData{
		Organization:   org,
		Members:        nil,
		SessionsByUser: map[uint][]model.GameSession{},
		Stats:          &model.OrgStats{},
		WindowDays:     30,
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer f.Close()

	merges, err := f.GetMergeCells("Users")
	require.NoError(t, err)
	assert.Empty(t, merges)
}
