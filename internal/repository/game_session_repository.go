package repository

import (
	"simtrain_backend/internal/model"

	"gorm.io/gorm"
)

type GameSessionRepository struct {
	DB *gorm.DB
}

func NewGameSessionRepository(db *gorm.DB) *GameSessionRepository {
	return &GameSessionRepository{DB: db}
}

func (r *GameSessionRepository) Create(session *model.GameSession) error {
	return r.DB.Create(session).Error
}

func (r *GameSessionRepository) FindBySessionID(sessionID string) (*model.GameSession, error) {
	var session model.GameSession
	err := r.DB.Where("session_id = ?", sessionID).First(&session).Error
	return &session, err
}

// FindByUserID returns a user's sessions newest first. limit <= 0 means no
// limit.
func (r *GameSessionRepository) FindByUserID(userID uint, limit int) ([]model.GameSession, error) {
	var sessions []model.GameSession
	query := r.DB.Where("user_id = ?", userID).Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&sessions).Error
	return sessions, err
}

// FindByUserIDs loads the sessions of many users in one query, grouped by
// user, each group newest first.
func (r *GameSessionRepository) FindByUserIDs(userIDs []uint) (map[uint][]model.GameSession, error) {
	grouped := make(map[uint][]model.GameSession, len(userIDs))
	if len(userIDs) == 0 {
		return grouped, nil
	}

	var sessions []model.GameSession
	err := r.DB.Where("user_id IN ?", userIDs).Order("started_at DESC").Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	for _, s := range sessions {
		grouped[s.UserID] = append(grouped[s.UserID], s)
	}
	return grouped, nil
}

func (r *GameSessionRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.GameSession{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
