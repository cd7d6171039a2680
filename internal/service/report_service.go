package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"simtrain_backend/internal/config"
	"simtrain_backend/internal/model"
	"simtrain_backend/internal/repository"
	"simtrain_backend/internal/util"
	"simtrain_backend/pkg/logger"
	"simtrain_backend/pkg/monitoring"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReportService loads report inputs, runs the aggregation, and dispatches to
// the workbook or PDF renderer. Generation is request-scoped and stateless;
// the only shared state is the short-lived Redis cache of organization
// aggregates.
type ReportService struct {
	UserRepo    *repository.UserRepository
	OrgRepo     *repository.OrganizationRepository
	SessionRepo *repository.GameSessionRepository
	Stats       *StatsService
	Excel       *ExcelReportService
	PDF         *PDFReportService
	Storage     *StorageService
	Redis       *redis.Client
	Cfg         *config.Config
}

func NewReportService(
	userRepo *repository.UserRepository,
	orgRepo *repository.OrganizationRepository,
	sessionRepo *repository.GameSessionRepository,
	stats *StatsService,
	excel *ExcelReportService,
	pdf *PDFReportService,
	storage *StorageService,
	rdb *redis.Client,
	cfg *config.Config,
) *ReportService {
	return &ReportService{
		UserRepo:    userRepo,
		OrgRepo:     orgRepo,
		SessionRepo: sessionRepo,
		Stats:       stats,
		Excel:       excel,
		PDF:         pdf,
		Storage:     storage,
		Redis:       rdb,
		Cfg:         cfg,
	}
}

// BuildUserReportData loads the profile and full session history (newest
// first) and computes the statistics.
func (s *ReportService) BuildUserReportData(userID uint) (*UserReportData, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	sessions, err := s.SessionRepo.FindByUserID(userID, 0)
	if err != nil {
		return nil, err
	}

	return &UserReportData{
		Profile:     user,
		Stats:       s.Stats.ComputeUserStats(sessions),
		GameHistory: sessions,
	}, nil
}

// GenerateUserReport renders a user report in the requested format. For
// format=json the data itself is returned and file is nil.
func (s *ReportService) GenerateUserReport(userID uint, format string) (*ReportFile, *UserReportData, error) {
	start := time.Now()

	data, err := s.BuildUserReportData(userID)
	if err != nil {
		return nil, nil, err
	}

	var file *ReportFile
	switch format {
	case util.FormatJSON:
		return nil, data, nil
	case util.FormatXLSX:
		file, err = s.Excel.GenerateUserReport(data)
	case util.FormatPDF:
		file, err = s.PDF.GenerateUserReport(data)
	default:
		return nil, nil, util.ErrInvalidFormat
	}
	if err != nil {
		return nil, nil, err
	}

	monitoring.ObserveReport("user", format, start)
	s.archive(file)
	return file, data, nil
}

// BuildOrganizationReportData loads the members and their sessions, and
// computes (or fetches from cache) the organization aggregates.
func (s *ReportService) BuildOrganizationReportData(orgID uint, windowDays int) (*OrgReportData, error) {
	org, err := s.OrgRepo.FindByID(orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrOrganizationNotFound
		}
		return nil, err
	}

	members, err := s.UserRepo.FindByOrganization(orgID)
	if err != nil {
		return nil, err
	}

	userIDs := make([]uint, len(members))
	for i, m := range members {
		userIDs[i] = m.ID
	}
	sessionsByUser, err := s.SessionRepo.FindByUserIDs(userIDs)
	if err != nil {
		return nil, err
	}

	stats := s.cachedOrgStats(orgID, windowDays, func() *model.OrgStats {
		return s.Stats.ComputeOrganizationStats(members, sessionsByUser, windowDays, time.Now())
	})

	return &OrgReportData{
		Organization:   org,
		Members:        members,
		SessionsByUser: sessionsByUser,
		Stats:          stats,
		WindowDays:     windowDays,
	}, nil
}

// GenerateOrganizationReport renders an organization report in the
// requested format.
func (s *ReportService) GenerateOrganizationReport(orgID uint, windowDays int, format string) (*ReportFile, *OrgReportData, error) {
	start := time.Now()

	data, err := s.BuildOrganizationReportData(orgID, windowDays)
	if err != nil {
		return nil, nil, err
	}

	var file *ReportFile
	switch format {
	case util.FormatJSON:
		return nil, data, nil
	case util.FormatXLSX:
		file, err = s.Excel.GenerateOrganizationReport(data)
	case util.FormatPDF:
		file, err = s.PDF.GenerateOrganizationReport(data)
	default:
		return nil, nil, util.ErrInvalidFormat
	}
	if err != nil {
		return nil, nil, err
	}

	monitoring.ObserveReport("organization", format, start)
	s.archive(file)
	return file, data, nil
}

// cachedOrgStats serves organization aggregates from Redis when fresh
// enough; the compute closure runs on a miss. Cache failures fall back to
// recomputation silently.
func (s *ReportService) cachedOrgStats(orgID uint, windowDays int, compute func() *model.OrgStats) *model.OrgStats {
	if s.Redis == nil {
		return compute()
	}

	ctx := context.Background()
	key := fmt.Sprintf("org_stats:%d:%d", orgID, windowDays)

	if val, err := s.Redis.Get(ctx, key).Result(); err == nil {
		var cached model.OrgStats
		if jsonErr := json.Unmarshal([]byte(val), &cached); jsonErr == nil {
			return &cached
		}
	}

	stats := compute()
	if payload, err := json.Marshal(stats); err == nil {
		ttl := time.Duration(s.Cfg.Reports.CacheTTLSecs) * time.Second
		if err := s.Redis.Set(ctx, key, payload, ttl).Err(); err != nil {
			logger.Log.Warn("failed to cache org stats", zap.Error(err))
		}
	}
	return stats
}

// archive keeps a copy of the generated file in the configured storage
// backend. Archival is best-effort and never blocks report delivery.
func (s *ReportService) archive(file *ReportFile) {
	if file == nil || s.Storage == nil || !s.Cfg.Reports.Archive {
		return
	}

	go func() {
		name := path.Join(s.Cfg.Reports.ArchivePrefix, file.Filename)
		_, err := s.Storage.Provider.Upload(
			context.Background(),
			name,
			bytes.NewReader(file.Data),
			int64(len(file.Data)),
			file.ContentType,
		)
		if err != nil {
			logger.Log.Warn("report archive failed",
				zap.String("filename", file.Filename),
				zap.Error(err))
		}
	}()
}
