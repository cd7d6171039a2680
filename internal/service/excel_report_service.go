package service

import (
	"fmt"
	"simtrain_backend/internal/model"
	"simtrain_backend/internal/util"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
)

// Fixed sheet design constants. Existing customer spreadsheets and macros
// are built against this layout, so columns and merges must not move.
var (
	historyColumnWidths  = []float64{5, 15, 30, 12, 18, 12, 8, 12, 20, 20, 20}
	identityColumnWidths = []float64{20, 25, 10, 12, 12, 15, 18}
)

const (
	orgIdentityColumns   = 7
	parameterColumnWidth = 15.0
)

// MergeRegion is one horizontal cell merge, with zero-based column indexes.
// Kept independent of excelize so the layout math is testable without a
// workbook engine.
type MergeRegion struct {
	Row      int
	ColStart int
	ColEnd   int
}

// ParameterMergeRegions computes the group-header merges of the organization
// Users sheet: one three-column region per active game type, starting right
// of the identity columns.
func ParameterMergeRegions(row, identityCols, activeTypeCount int) []MergeRegion {
	regions := make([]MergeRegion, 0, activeTypeCount)
	for i := 0; i < activeTypeCount; i++ {
		start := identityCols + 3*i
		regions = append(regions, MergeRegion{Row: row, ColStart: start, ColEnd: start + 2})
	}
	return regions
}

// ExcelReportService renders user and organization reports as XLSX
// workbooks. Renderers never panic past their boundary; any construction
// failure comes back as an error.
type ExcelReportService struct {
	Stats *StatsService
}

func NewExcelReportService(stats *StatsService) *ExcelReportService {
	return &ExcelReportService{Stats: stats}
}

// GenerateUserReport builds the four-sheet single-user workbook:
// Profile, Summary, Game History and Performance.
func (s *ExcelReportService) GenerateUserReport(data *UserReportData) (file *ReportFile, err error) {
	defer func() {
		if r := recover(); r != nil {
			file, err = nil, fmt.Errorf("excel user report: %v", r)
		}
	}()

	f := excelize.NewFile()
	defer f.Close()

	if err := s.writeProfileSheet(f, data.Profile); err != nil {
		return nil, err
	}
	if err := s.writeSummarySheet(f, data.Stats); err != nil {
		return nil, err
	}
	if err := s.writeHistorySheet(f, data.GameHistory); err != nil {
		return nil, err
	}
	if err := s.writePerformanceSheet(f, data.Stats); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}

	return &ReportFile{
		Filename:    reportFilename(data.Profile.Name, "Report", "xlsx", time.Now()),
		ContentType: util.MimeXLSX,
		Data:        buf.Bytes(),
	}, nil
}

func (s *ExcelReportService) writeProfileSheet(f *excelize.File, user *model.User) error {
	const sheet = "Profile"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	orgName := user.OrganizationName()
	if orgName == "" {
		orgName = "N/A"
	}
	lastLogin := "Never"
	if user.LastLogin != nil {
		lastLogin = user.LastLogin.Format(util.TimeFormat)
	}

	f.SetCellValue(sheet, "A1", "User Profile Report")
	rows := [][2]interface{}{
		{"Name", user.Name},
		{"Email", user.Email},
		{"Role", string(user.Role)},
		{"Organization", orgName},
		{"Member Since", user.CreatedAt.Format(util.DateFormat)},
		{"Last Login", lastLogin},
	}
	for i, pair := range rows {
		setRow(f, sheet, 3+i, pair[0], pair[1])
	}

	f.SetColWidth(sheet, "A", "A", 20)
	f.SetColWidth(sheet, "B", "B", 40)
	return nil
}

func (s *ExcelReportService) writeSummarySheet(f *excelize.File, stats *model.UserStats) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", "Performance Summary")
	setRow(f, sheet, 3, "Metric", "Value")

	metrics := [][2]interface{}{
		{"Games Played", stats.GamesPlayed},
		{"Cases Completed", stats.CasesCompleted},
		{"Completion Rate", fmt.Sprintf("%d%%", stats.CompletionRate)},
		{"Average Score", fmt.Sprintf("%.2f%%", stats.AverageScore)},
		{"Total Playtime", FormatDuration(stats.TotalPlaytime)},
		{"Hints Used", stats.TotalHints},
	}
	for i, pair := range metrics {
		setRow(f, sheet, 4+i, pair[0], pair[1])
	}

	f.SetColWidth(sheet, "A", "A", 25)
	f.SetColWidth(sheet, "B", "B", 20)
	return nil
}

func (s *ExcelReportService) writeHistorySheet(f *excelize.File, sessions []model.GameSession) error {
	const sheet = "Game History"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", "Game History")
	setRow(f, sheet, 3,
		"#", "Game Type", "Case Title", "Status", "Date", "Duration",
		"Hints", "Overall Score", "Parameter 1", "Parameter 2", "Parameter 3")

	// Input order preserved: sorting is the caller's responsibility.
	for i, session := range sessions {
		status := "Unsolved"
		if session.CaseSolved {
			status = "Solved"
		}
		var overall interface{} = "N/A"
		if session.OverallScore != nil {
			overall = *session.OverallScore
		}
		setRow(f, sheet, 4+i,
			i+1,
			model.GameTypeDisplayName(session.GameType),
			session.CaseTitle,
			status,
			session.StartedAt.Format(util.TimeFormat),
			FormatDuration(session.ElapsedTime),
			session.HintsUsed,
			overall,
			formatParameterCell(&session, 0),
			formatParameterCell(&session, 1),
			formatParameterCell(&session, 2),
		)
	}

	for i, width := range historyColumnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, width)
	}
	return nil
}

func (s *ExcelReportService) writePerformanceSheet(f *excelize.File, stats *model.UserStats) error {
	const sheet = "Performance"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", "Performance by Game Type")
	setRow(f, sheet, 3, "Game Type", "Total Games", "Completed", "Avg Score", "Completion Rate")

	types := make([]string, 0, len(stats.ByGameType))
	for rawType := range stats.ByGameType {
		types = append(types, rawType)
	}
	sort.Strings(types)

	for i, rawType := range types {
		gt := stats.ByGameType[rawType]
		rate := 0
		if gt.Total > 0 {
			rate = gt.Completed * 100 / gt.Total
		}
		setRow(f, sheet, 4+i,
			model.GameTypeDisplayName(rawType),
			gt.Total,
			gt.Completed,
			fmt.Sprintf("%.2f", gt.AvgScore),
			fmt.Sprintf("%d%%", rate),
		)
	}

	widths := []float64{25, 12, 12, 12, 15}
	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, width)
	}
	return nil
}

// GenerateOrganizationReport builds the two-sheet organization workbook:
// Overview plus the Users sheet with merged per-game-type group headers.
func (s *ExcelReportService) GenerateOrganizationReport(data *OrgReportData) (file *ReportFile, err error) {
	defer func() {
		if r := recover(); r != nil {
			file, err = nil, fmt.Errorf("excel organization report: %v", r)
		}
	}()

	f := excelize.NewFile()
	defer f.Close()

	if err := s.writeOrgOverviewSheet(f, data); err != nil {
		return nil, err
	}
	if err := s.writeOrgUsersSheet(f, data); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}

	return &ReportFile{
		Filename:    reportFilename(data.Organization.Name, "OrgReport", "xlsx", time.Now()),
		ContentType: util.MimeXLSX,
		Data:        buf.Bytes(),
	}, nil
}

func (s *ExcelReportService) writeOrgOverviewSheet(f *excelize.File, data *OrgReportData) error {
	const sheet = "Overview"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", "Organization Report")
	f.SetCellValue(sheet, "A2", data.Organization.Name)
	f.SetCellValue(sheet, "A3", "Generated: "+time.Now().Format(util.DateFormat))

	metrics := [][2]interface{}{
		{"Total Users", data.Stats.TotalUsers},
		{fmt.Sprintf("Active Users (last %d days)", data.WindowDays), data.Stats.ActiveUsers},
		{"Total Games", data.Stats.TotalGames},
		{"Total Cases Completed", data.Stats.TotalCasesCompleted},
		{"Average Score", fmt.Sprintf("%.2f%%", data.Stats.AverageScore)},
		{"Total Playtime", FormatDuration(data.Stats.TotalPlaytime)},
	}
	for i, pair := range metrics {
		setRow(f, sheet, 5+i, pair[0], pair[1])
	}

	f.SetColWidth(sheet, "A", "A", 28)
	f.SetColWidth(sheet, "B", "B", 20)
	return nil
}

func (s *ExcelReportService) writeOrgUsersSheet(f *excelize.File, data *OrgReportData) error {
	const sheet = "Users"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	// Only game types with at least one session get columns; unused types
	// are omitted entirely.
	activeTypes := s.Stats.ActiveGameTypes(data.SessionsByUser)

	// Row 1: identity headers plus one merged group header per game type.
	setRow(f, sheet, 1, "Name", "Email", "Games", "Completed", "Avg Score", "Playtime", "Last Active")
	for i, canonical := range activeTypes {
		cell, err := excelize.CoordinatesToCellName(orgIdentityColumns+3*i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cell, model.GameTypeDisplayName(canonical))
	}
	for _, region := range ParameterMergeRegions(1, orgIdentityColumns, len(activeTypes)) {
		start, err := excelize.CoordinatesToCellName(region.ColStart+1, region.Row)
		if err != nil {
			return err
		}
		end, err := excelize.CoordinatesToCellName(region.ColEnd+1, region.Row)
		if err != nil {
			return err
		}
		if err := f.MergeCell(sheet, start, end); err != nil {
			return err
		}
	}

	// Row 2: parameter labels under each group, blank under the identity
	// columns. Pass-through types without catalog labels stay blank too.
	for i, canonical := range activeTypes {
		labels := model.ParameterLabelsFor(canonical)
		if labels == nil {
			continue
		}
		for j, label := range []string{labels.Param1, labels.Param2, labels.Param3} {
			cell, err := excelize.CoordinatesToCellName(orgIdentityColumns+3*i+j+1, 2)
			if err != nil {
				return err
			}
			f.SetCellValue(sheet, cell, label)
		}
	}

	// Data rows.
	for rowIdx, user := range data.Members {
		sessions := data.SessionsByUser[user.ID]
		userStats := s.Stats.ComputeUserStats(sessions)
		paramAvgs := s.Stats.ComputeParameterAverages(sessions)

		lastActive := "Never"
		if user.LastLogin != nil {
			lastActive = user.LastLogin.Format(util.DateFormat)
		}

		values := []interface{}{
			user.Name,
			user.Email,
			userStats.GamesPlayed,
			userStats.CasesCompleted,
			fmt.Sprintf("%.2f", userStats.AverageScore),
			FormatDuration(userStats.TotalPlaytime),
			lastActive,
		}
		for _, canonical := range activeTypes {
			avg := paramAvgs[canonical] // zero value when the user never played this type
			values = append(values,
				fmt.Sprintf("%.1f", avg.Param1),
				fmt.Sprintf("%.1f", avg.Param2),
				fmt.Sprintf("%.1f", avg.Param3),
			)
		}
		setRow(f, sheet, 3+rowIdx, values...)
	}

	for i, width := range identityColumnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, width)
	}
	for i := 0; i < len(activeTypes)*3; i++ {
		col, _ := excelize.ColumnNumberToName(orgIdentityColumns + i + 1)
		f.SetColWidth(sheet, col, col, parameterColumnWidth)
	}
	return nil
}

// formatParameterCell renders one breakdown parameter as "<Label>: <v>/10",
// or "N/A" when the breakdown or that field is absent.
func formatParameterCell(session *model.GameSession, index int) string {
	b := session.Breakdown
	if b == nil {
		return "N/A"
	}

	var value *float64
	var name string
	switch index {
	case 0:
		value, name = b.Parameter1, b.Parameter1Name
	case 1:
		value, name = b.Parameter2, b.Parameter2Name
	case 2:
		value, name = b.Parameter3, b.Parameter3Name
	}
	if value == nil {
		return "N/A"
	}

	if name == "" {
		// Older sessions may predate self-describing breakdowns; fall back
		// to the catalog label.
		if labels := model.ParameterLabelsFor(model.ResolveCanonicalType(session.GameType)); labels != nil {
			name = []string{labels.Param1, labels.Param2, labels.Param3}[index]
		} else {
			name = fmt.Sprintf("Parameter %d", index+1)
		}
	}
	return fmt.Sprintf("%s: %g/10", name, *value)
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			continue
		}
		f.SetCellValue(sheet, cell, v)
	}
}
