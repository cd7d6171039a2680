package service

import (
	"simtrain_backend/internal/model"
	"strings"
	"time"
)

// ReportFile is a fully rendered report ready to stream to the client.
// Either a complete, well-formed file is produced or none is.
type ReportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// UserReportData is everything a single-user report is rendered from. It is
// also the JSON passthrough payload when format=json.
type UserReportData struct {
	Profile     *model.User         `json:"profile"`
	Stats       *model.UserStats    `json:"stats"`
	GameHistory []model.GameSession `json:"gameHistory"`
}

// OrgReportData is the organization-report input: the members, each
// member's sessions, and the precomputed aggregates.
type OrgReportData struct {
	Organization   *model.Organization          `json:"organization"`
	Members        []model.User                 `json:"members"`
	SessionsByUser map[uint][]model.GameSession `json:"-"`
	Stats          *model.OrgStats              `json:"stats"`
	WindowDays     int                          `json:"windowDays"`
}

// reportFilename builds "<Name_with_underscores>_<Kind>_<YYYY-MM-DD>.<ext>".
func reportFilename(name, kind, ext string, now time.Time) string {
	return strings.ReplaceAll(name, " ", "_") + "_" + kind + "_" + now.Format("2006-01-02") + "." + ext
}
