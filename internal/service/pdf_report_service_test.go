package service

import (
	"fmt"
	"regexp"
	"simtrain_backend/internal/model"
	"simtrain_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRowsCap(t *testing.T) {
	sessions := make([]model.GameSession, 60)
	for i := range sessions {
		sessions[i] = model.GameSession{
			GameType:  "quick",
			CaseTitle: fmt.Sprintf("Case %d", i+1),
			StartedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
		}
	}

	rows := historyRows(sessions)
	require.Len(t, rows, pdfHistoryLimit)

	// capped from the head of the input order
	assert.Equal(t, "1", rows[0][0])
	assert.Equal(t, "Case 1", rows[0][2])
	assert.Equal(t, "50", rows[49][0])
	assert.Equal(t, "Case 50", rows[49][2])
}

func TestHistoryRowsUnderCap(t *testing.T) {
	rows := historyRows([]model.GameSession{
		{GameType: "quick", CaseTitle: "Only Case", CaseSolved: true, OverallScore: fptr(91)},
	})
	require.Len(t, rows, 1)
	assert.Equal(t, "Solved", rows[0][3])
	assert.Equal(t, "91", rows[0][5])

	assert.Empty(t, historyRows(nil))
}

func TestHistoryRowsTruncation(t *testing.T) {
	long := "An Extremely Long Case Title That Never Ends"
	rows := historyRows([]model.GameSession{{GameType: "quick", CaseTitle: long}})
	require.Len(t, rows, 1)

	title := rows[0][2]
	assert.Len(t, []rune(title), pdfTitleTruncate)
	assert.Equal(t, "...", title[len(title)-3:])
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 25, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"abcdefghij", 8, "abcde..."},
		{"ab", 2, "ab"},
		{"abcd", 3, "abc"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncateString(tt.in, tt.max), "in=%q max=%d", tt.in, tt.max)
	}
}

func TestParameterSummary(t *testing.T) {
	session := &model.GameSession{
		GameType: "quick",
		Breakdown: &model.ScoreBreakdown{
			Parameter1:     fptr(8),
			Parameter1Name: "Critical Thinking",
			Parameter3:     fptr(9),
			Parameter3Name: "Intuition",
		},
	}
	assert.Equal(t, "Critical Thinking: 8/10, Intuition: 9/10", parameterSummary(session))

	assert.Equal(t, "N/A", parameterSummary(&model.GameSession{GameType: "quick"}))
}

func TestGenerateUserReportPDF(t *testing.T) {
	svc := NewPDFReportService(NewStatsService())

	file, err := svc.GenerateUserReport(userReportFixture())
	require.NoError(t, err)
	require.NotNil(t, file)

	assert.Regexp(t, regexp.MustCompile(`^Jane_Doe_Report_\d{4}-\d{2}-\d{2}\.pdf$`), file.Filename)
	assert.Equal(t, util.MimePDF, file.ContentType)
	require.NotEmpty(t, file.Data)
	assert.Equal(t, "%PDF", string(file.Data[:4]))
}

func TestGenerateUserReportPDFLongHistory(t *testing.T) {
	svc := NewPDFReportService(NewStatsService())

	data := userReportFixture()
	for i := 0; i < 120; i++ {
		data.GameHistory = append(data.GameHistory, model.GameSession{
			GameType:     "quick",
			CaseTitle:    fmt.Sprintf("Case %d", i),
			StartedAt:    time.Now(),
			OverallScore: fptr(70),
		})
	}
	data.Stats = NewStatsService().ComputeUserStats(data.GameHistory)

	file, err := svc.GenerateUserReport(data)
	require.NoError(t, err)
	assert.NotEmpty(t, file.Data)
}

func TestGenerateOrganizationReportPDF(t *testing.T) {
	svc := NewPDFReportService(NewStatsService())

	member := model.User{Name: "Jane Doe", Email: "jane@example.com"}
	member.ID = 1

	file, err := svc.GenerateOrganizationReport(&OrgReportData{
		Organization: &model.Organization{Name: "Acme Corp"},
		Members:      []model.User{member},
		SessionsByUser: map[uint][]model.GameSession{
			1: {{GameType: "quick", CaseSolved: true, OverallScore: fptr(82)}},
		},
		Stats:      &model.OrgStats{TotalUsers: 1, TotalGames: 1},
		WindowDays: 30,
	})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^Acme_Corp_OrgReport_\d{4}-\d{2}-\d{2}\.pdf$`), file.Filename)
	assert.Equal(t, "%PDF", string(file.Data[:4]))
}
