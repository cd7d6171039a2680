package service

import (
	"bytes"
	"fmt"
	"simtrain_backend/internal/model"
	"simtrain_backend/internal/util"
	"sort"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	// pdfHistoryLimit caps the Game History table. History is truncated,
	// not paginated across multiple tables.
	pdfHistoryLimit = 50

	pdfTitleTruncate = 25
	pdfParamTruncate = 50

	// pdfBlockBreakY is the Y threshold (mm) past which a new table block
	// starts on a fresh page, so a header is never orphaned at the bottom.
	pdfBlockBreakY = 250.0

	// pdfRowBreakY forces a page break mid-table when a row would not fit.
	pdfRowBreakY = 270.0
)

var (
	pdfBlueHeader   = [3]int{41, 128, 185}
	pdfGreenHeader  = [3]int{39, 174, 96}
	pdfPurpleHeader = [3]int{142, 68, 173}
)

// PDFReportService renders user and organization reports as paginated PDF
// documents. Like the workbook renderer it converts any internal failure to
// an error at its boundary.
type PDFReportService struct {
	Stats *StatsService
}

func NewPDFReportService(stats *StatsService) *PDFReportService {
	return &PDFReportService{Stats: stats}
}

// GenerateUserReport renders the single-user PDF: profile header, summary
// table, per-game-type table, and a dedicated Game History page capped at
// the first 50 sessions.
func (s *PDFReportService) GenerateUserReport(data *UserReportData) (file *ReportFile, err error) {
	defer func() {
		if r := recover(); r != nil {
			file, err = nil, fmt.Errorf("pdf user report: %v", r)
		}
	}()

	pdf := newReportPDF()

	pdf.AddPage()
	writePDFTitle(pdf, "User Performance Report")

	orgName := data.Profile.OrganizationName()
	if orgName == "" {
		orgName = "N/A"
	}
	lastLogin := "Never"
	if data.Profile.LastLogin != nil {
		lastLogin = data.Profile.LastLogin.Format(util.TimeFormat)
	}

	pdf.SetFont("Arial", "", 11)
	for _, line := range []string{
		"Name: " + data.Profile.Name,
		"Email: " + data.Profile.Email,
		"Role: " + string(data.Profile.Role),
		"Organization: " + orgName,
		"Member Since: " + data.Profile.CreatedAt.Format(util.DateFormat),
		"Last Login: " + lastLogin,
	} {
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	writePDFHeading(pdf, "Summary")
	drawPDFTable(pdf,
		[]string{"Metric", "Value"},
		[]float64{80, 60},
		summaryRows(data.Stats),
		pdfBlueHeader, false)

	ensurePDFSpace(pdf)
	pdf.Ln(6)
	writePDFHeading(pdf, "Performance by Game Type")
	drawPDFTable(pdf,
		[]string{"Game Type", "Total", "Completed", "Avg Score", "Completion"},
		[]float64{60, 25, 30, 30, 30},
		gameTypeRows(data.Stats),
		pdfGreenHeader, false)

	pdf.AddPage()
	writePDFHeading(pdf, "Game History")
	drawPDFTable(pdf,
		[]string{"#", "Type", "Title", "Status", "Date", "Score", "Parameter Scores"},
		[]float64{8, 25, 35, 18, 25, 15, 64},
		historyRows(data.GameHistory),
		pdfBlueHeader, true)

	out, err := finishPDF(pdf)
	if err != nil {
		return nil, err
	}

	return &ReportFile{
		Filename:    reportFilename(data.Profile.Name, "Report", "pdf", time.Now()),
		ContentType: util.MimePDF,
		Data:        out,
	}, nil
}

// GenerateOrganizationReport renders the organization PDF: overview table
// plus a per-member performance table.
func (s *PDFReportService) GenerateOrganizationReport(data *OrgReportData) (file *ReportFile, err error) {
	defer func() {
		if r := recover(); r != nil {
			file, err = nil, fmt.Errorf("pdf organization report: %v", r)
		}
	}()

	pdf := newReportPDF()

	pdf.AddPage()
	writePDFTitle(pdf, "Organization Report")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, data.Organization.Name, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Activity window: last %d days", data.WindowDays), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	writePDFHeading(pdf, "Overview")
	drawPDFTable(pdf,
		[]string{"Metric", "Value"},
		[]float64{80, 60},
		orgOverviewRows(data.Stats),
		pdfBlueHeader, false)

	ensurePDFSpace(pdf)
	pdf.Ln(6)
	writePDFHeading(pdf, "User Performance")

	rows := make([][]string, 0, len(data.Members))
	for _, user := range data.Members {
		userStats := s.Stats.ComputeUserStats(data.SessionsByUser[user.ID])
		lastActive := "Never"
		if user.LastLogin != nil {
			lastActive = user.LastLogin.Format(util.DateFormat)
		}
		rows = append(rows, []string{
			truncateString(user.Name, pdfTitleTruncate),
			fmt.Sprintf("%d", userStats.GamesPlayed),
			fmt.Sprintf("%d", userStats.CasesCompleted),
			fmt.Sprintf("%.2f", userStats.AverageScore),
			FormatDuration(userStats.TotalPlaytime),
			lastActive,
		})
	}
	drawPDFTable(pdf,
		[]string{"Name", "Games", "Completed", "Avg Score", "Playtime", "Last Active"},
		[]float64{45, 20, 25, 25, 35, 30},
		rows,
		pdfPurpleHeader, true)

	out, err := finishPDF(pdf)
	if err != nil {
		return nil, err
	}

	return &ReportFile{
		Filename:    reportFilename(data.Organization.Name, "OrgReport", "pdf", time.Now()),
		ContentType: util.MimePDF,
		Data:        out,
	}, nil
}

// newReportPDF builds the shared document shell: A4 portrait with the
// "Page N of Total" + generation-timestamp footer stamped on every page.
// The {nb} alias is substituted once the final page count is known, which
// is why the footer can be declared up front.
func newReportPDF() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	generatedAt := "Generated on " + time.Now().Format(util.TimeFormat)

	pdf.SetFooterFunc(func() {
		pdf.SetY(-18)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 1, "C", false, 0, "")
		pdf.CellFormat(0, 5, generatedAt, "", 0, "C", false, 0, "")
	})
	pdf.AliasNbPages("")
	pdf.SetAutoPageBreak(true, 25)
	return pdf
}

func finishPDF(pdf *fpdf.Fpdf) ([]byte, error) {
	if pdf.Err() {
		return nil, pdf.Error()
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writePDFTitle(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)
}

func writePDFHeading(pdf *fpdf.Fpdf, heading string) {
	pdf.SetFont("Arial", "B", 13)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, heading, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

// ensurePDFSpace starts a new page when the running Y offset is past the
// block threshold, so the next table header is not orphaned.
func ensurePDFSpace(pdf *fpdf.Fpdf) {
	if pdf.GetY() > pdfBlockBreakY {
		pdf.AddPage()
	}
}

// drawPDFTable renders one table block with a filled header row, repeating
// the header after a mid-table page break.
func drawPDFTable(pdf *fpdf.Fpdf, headers []string, widths []float64, rows [][]string, headerFill [3]int, striped bool) {
	drawHeader := func() {
		pdf.SetFillColor(headerFill[0], headerFill[1], headerFill[2])
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Arial", "B", 9)
		for i, h := range headers {
			pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}

	drawHeader()
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 9)

	for rowIdx, row := range rows {
		if pdf.GetY() > pdfRowBreakY {
			pdf.AddPage()
			drawHeader()
			pdf.SetTextColor(0, 0, 0)
			pdf.SetFont("Arial", "", 9)
		}

		fill := false
		if striped && rowIdx%2 == 1 {
			pdf.SetFillColor(240, 240, 240)
			fill = true
		}
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			pdf.CellFormat(widths[i], 7, cell, "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}
}

func summaryRows(stats *model.UserStats) [][]string {
	return [][]string{
		{"Games Played", fmt.Sprintf("%d", stats.GamesPlayed)},
		{"Cases Completed", fmt.Sprintf("%d", stats.CasesCompleted)},
		{"Completion Rate", fmt.Sprintf("%d%%", stats.CompletionRate)},
		{"Average Score", fmt.Sprintf("%.2f%%", stats.AverageScore)},
		{"Total Playtime", FormatDuration(stats.TotalPlaytime)},
		{"Hints Used", fmt.Sprintf("%d", stats.TotalHints)},
	}
}

func orgOverviewRows(stats *model.OrgStats) [][]string {
	return [][]string{
		{"Total Users", fmt.Sprintf("%d", stats.TotalUsers)},
		{"Active Users", fmt.Sprintf("%d", stats.ActiveUsers)},
		{"Total Games", fmt.Sprintf("%d", stats.TotalGames)},
		{"Total Cases Completed", fmt.Sprintf("%d", stats.TotalCasesCompleted)},
		{"Average Score", fmt.Sprintf("%.2f%%", stats.AverageScore)},
		{"Total Playtime", FormatDuration(stats.TotalPlaytime)},
	}
}

func gameTypeRows(stats *model.UserStats) [][]string {
	types := make([]string, 0, len(stats.ByGameType))
	for rawType := range stats.ByGameType {
		types = append(types, rawType)
	}
	sort.Strings(types)

	rows := make([][]string, 0, len(types))
	for _, rawType := range types {
		gt := stats.ByGameType[rawType]
		rate := 0
		if gt.Total > 0 {
			rate = gt.Completed * 100 / gt.Total
		}
		rows = append(rows, []string{
			model.GameTypeDisplayName(rawType),
			fmt.Sprintf("%d", gt.Total),
			fmt.Sprintf("%d", gt.Completed),
			fmt.Sprintf("%.2f", gt.AvgScore),
			fmt.Sprintf("%d%%", rate),
		})
	}
	return rows
}

// historyRows converts sessions into Game History table rows, capped at
// pdfHistoryLimit from the head of the input order. Callers pre-sort when
// "most recent first" is wanted.
func historyRows(sessions []model.GameSession) [][]string {
	limit := len(sessions)
	if limit > pdfHistoryLimit {
		limit = pdfHistoryLimit
	}

	rows := make([][]string, 0, limit)
	for i := 0; i < limit; i++ {
		session := sessions[i]
		status := "Unsolved"
		if session.CaseSolved {
			status = "Solved"
		}
		score := "N/A"
		if session.OverallScore != nil {
			score = fmt.Sprintf("%.0f", *session.OverallScore)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			model.GameTypeDisplayName(session.GameType),
			truncateString(session.CaseTitle, pdfTitleTruncate),
			status,
			session.StartedAt.Format(util.DateFormat),
			score,
			truncateString(parameterSummary(&session), pdfParamTruncate),
		})
	}
	return rows
}

// parameterSummary joins up to three "Label: value/10" fragments.
func parameterSummary(session *model.GameSession) string {
	var parts []string
	for i := 0; i < 3; i++ {
		cell := formatParameterCell(session, i)
		if cell != "N/A" {
			parts = append(parts, cell)
		}
	}
	if len(parts) == 0 {
		return "N/A"
	}
	return strings.Join(parts, ", ")
}

func truncateString(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
