package model

import (
	"time"
)

// ScoreBreakdown is the three-parameter score attached to a finished game
// session. Parameter names are stored alongside the values so historical
// sessions stay interpretable even if catalog labels change later. All
// numeric fields are optional; aggregation tolerates any of them missing.
// swagger:model ScoreBreakdown
type ScoreBreakdown struct {
	Parameter1     *float64 `json:"parameter1,omitempty"`
	Parameter1Name string   `json:"parameter1Name,omitempty"`
	Parameter2     *float64 `json:"parameter2,omitempty"`
	Parameter2Name string   `json:"parameter2Name,omitempty"`
	Parameter3     *float64 `json:"parameter3,omitempty"`
	Parameter3Name string   `json:"parameter3Name,omitempty"`
	Overall        *float64 `json:"overall,omitempty"`
	Summary        string   `json:"summary,omitempty"`
}

// GameSession is one completed play-through of a simulation. Rows are
// written once by the gameplay service and never mutated afterwards.
// swagger:model GameSession
type GameSession struct {
	BaseModel
	SessionID    string          `gorm:"size:36;uniqueIndex" json:"sessionId"`
	UserID       uint            `gorm:"index;not null" json:"userId"`
	GameType     string          `gorm:"size:50;index" json:"gameType"` // raw key as recorded by the simulation
	CaseTitle    string          `gorm:"size:255" json:"caseTitle"`
	CaseSolved   bool            `gorm:"default:false" json:"caseSolved"`
	StartedAt    time.Time       `json:"startedAt"`
	ElapsedTime  int             `gorm:"default:0" json:"elapsedTime"` // seconds
	HintsUsed    int             `gorm:"default:0" json:"hintsUsed"`
	OverallScore *float64        `json:"overallScore,omitempty"` // 0-100
	Breakdown    *ScoreBreakdown `gorm:"serializer:json" json:"scoreBreakdown,omitempty"`
}

func (GameSession) TableName() string {
	return "game_sessions"
}
