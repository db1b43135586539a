package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"agriverse_backend/internal/model"
	"agriverse_backend/internal/repository"
	"agriverse_backend/internal/util"
	"agriverse_backend/pkg/logger"
	"agriverse_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	moduleCacheKey = "learning:modules"
	moduleCacheTTL = 10 * time.Minute
)

type LearningService struct {
	ModuleRepo   *repository.ModuleRepository
	ProgressRepo *repository.ProgressRepository
	FarmerRepo   *repository.FarmerRepository
	Redis        *redis.Client
	DB           *gorm.DB
}

func NewLearningService(
	moduleRepo *repository.ModuleRepository,
	progressRepo *repository.ProgressRepository,
	farmerRepo *repository.FarmerRepository,
	rdb *redis.Client,
	db *gorm.DB,
) *LearningService {
	return &LearningService{
		ModuleRepo:   moduleRepo,
		ProgressRepo: progressRepo,
		FarmerRepo:   farmerRepo,
		Redis:        rdb,
		DB:           db,
	}
}

// ProgressResult is the payload returned after any progress-affecting call.
type ProgressResult struct {
	Progress          *model.Progress `json:"progress"`
	TotalProgress     int             `json:"total_progress"`
	TotalProofs       int             `json:"total_proofs"`
	VerificationScore float64         `json:"verification_score"`
	CatalogStale      bool            `json:"catalog_stale"`
}

// ListModules returns the catalog in curriculum order, served from the redis
// cache when warm.
func (s *LearningService) ListModules(ctx context.Context) ([]model.Module, error) {
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, moduleCacheKey).Result(); err == nil {
			var modules []model.Module
			if err := json.Unmarshal([]byte(cached), &modules); err == nil {
				return modules, nil
			}
		}
	}

	modules, err := s.ModuleRepo.ListOrdered()
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(modules); err == nil {
			s.Redis.Set(ctx, moduleCacheKey, data, moduleCacheTTL)
		}
	}

	return modules, nil
}

// GetOrInitProgress returns the learner's progress record, snapshotting the
// current catalog on first access. Concurrent first calls are settled by the
// unique index on auth_id: the losing writer re-reads the winner's record.
func (s *LearningService) GetOrInitProgress(authID uint) (*model.Progress, error) {
	progress, err := s.ProgressRepo.FindByAuthID(authID)
	if err == nil {
		return progress, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh, err := s.buildSnapshot(authID)
	if err != nil {
		return nil, err
	}

	if err := s.ProgressRepo.Create(fresh); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the creation race; the other request's snapshot wins.
			return s.ProgressRepo.FindByAuthID(authID)
		}
		return nil, err
	}

	return s.ProgressRepo.FindByAuthID(authID)
}

// VideoKnown checks the learner's snapshot for a video id. Callers with side
// effects, such as storing an uploaded proof, run this before committing them.
func (s *LearningService) VideoKnown(authID uint, videoID string) error {
	progress, err := s.GetOrInitProgress(authID)
	if err != nil {
		return err
	}
	if progress.FindVideo(videoID) == nil {
		return util.ErrVideoNotFound
	}
	return nil
}

func (s *LearningService) buildSnapshot(authID uint) (*model.Progress, error) {
	modules, err := s.ModuleRepo.ListOrdered()
	if err != nil {
		return nil, err
	}

	progress := &model.Progress{AuthID: authID}
	totalVideos := 0
	for _, m := range modules {
		mp := model.ModuleProgress{
			ModuleID: m.ID,
			Order:    m.Order,
		}
		for _, v := range m.Videos {
			mp.Videos = append(mp.Videos, model.VideoProgress{VideoID: v.VideoID})
			totalVideos++
		}
		progress.Modules = append(progress.Modules, mp)
		if m.CatalogVersion > progress.CatalogVersion {
			progress.CatalogVersion = m.CatalogVersion
		}
	}
	progress.TotalVideos = totalVideos

	return progress, nil
}

// CompleteVideo marks a video in the learner's snapshot as watched and runs
// the verification sync. Marking an already completed video is a no-op that
// still returns the current state.
func (s *LearningService) CompleteVideo(authID uint, role model.UserRole, videoID string) (*ProgressResult, error) {
	progress, err := s.GetOrInitProgress(authID)
	if err != nil {
		return nil, err
	}

	video := progress.FindVideo(videoID)
	if video == nil {
		return nil, util.ErrVideoNotFound
	}
	video.Completed = true

	if err := s.persistAndSync(progress, authID, role, "complete_video"); err != nil {
		return nil, err
	}

	return s.result(progress)
}

// SubmitProof attaches an uploaded proof reference to a video entry.
// Last write wins; no history is kept.
func (s *LearningService) SubmitProof(authID uint, role model.UserRole, videoID, proofRef string) (*ProgressResult, error) {
	progress, err := s.GetOrInitProgress(authID)
	if err != nil {
		return nil, err
	}

	video := progress.FindVideo(videoID)
	if video == nil {
		return nil, util.ErrVideoNotFound
	}
	now := time.Now()
	video.ProofImage = proofRef
	video.SubmissionDate = &now

	if err := s.persistAndSync(progress, authID, role, "submit_proof"); err != nil {
		return nil, err
	}

	return s.result(progress)
}

// persistAndSync recomputes the derived counters, persists the progress record
// and, for farmers with a profile, recomputes the verification score and rank
// inside the same transaction so neither record can be left stale relative to
// the other.
func (s *LearningService) persistAndSync(progress *model.Progress, authID uint, role model.UserRole, trigger string) error {
	progress.RefreshTotals()

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.ProgressRepo.Save(tx, progress); err != nil {
			return err
		}

		if role != model.RoleFarmer {
			return nil
		}

		farmer, err := s.FarmerRepo.FindByAuthID(authID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Learner has the farmer role but no profile yet; progress
				// alone is persisted.
				return nil
			}
			return err
		}

		farmer.VerificationScore = progress.VerificationScore()
		farmer.UpdateScores()
		if err := s.FarmerRepo.Save(tx, farmer); err != nil {
			return err
		}

		monitoring.VerificationSyncCounter.WithLabelValues(trigger).Inc()
		logger.Log.Info("farmer verification score updated",
			zap.Uint("auth_id", authID),
			zap.Float64("verification_score", farmer.VerificationScore),
			zap.String("rank", string(farmer.Rank)),
		)
		return nil
	})
}

func (s *LearningService) result(progress *model.Progress) (*ProgressResult, error) {
	current, err := s.ModuleRepo.CurrentVersion()
	if err != nil {
		return nil, err
	}

	return &ProgressResult{
		Progress:          progress,
		TotalProgress:     progress.TotalProgress,
		TotalProofs:       progress.TotalProofs,
		VerificationScore: progress.VerificationScore(),
		CatalogStale:      progress.CatalogVersion != current,
	}, nil
}

// DescribeProgress wraps a progress record with derived state for GET calls.
func (s *LearningService) DescribeProgress(authID uint) (*ProgressResult, error) {
	progress, err := s.GetOrInitProgress(authID)
	if err != nil {
		return nil, err
	}
	return s.result(progress)
}

// ResetAllProgress wipes every learner's progress record. Admin only.
func (s *LearningService) ResetAllProgress(ctx context.Context) error {
	if err := s.ProgressRepo.DeleteAll(); err != nil {
		return err
	}
	logger.Log.Warn("all learner progress reset")
	return nil
}

// ReseedCatalog destructively replaces the catalog and invalidates the cache.
// Passing nil reseeds the default curriculum. Existing progress snapshots are
// not migrated; they are flagged stale via their catalog version stamp.
func (s *LearningService) ReseedCatalog(ctx context.Context, definitions []model.Module) (uint, error) {
	if definitions == nil {
		definitions = model.DefaultCurriculum()
	}

	version, err := s.ModuleRepo.ReplaceAll(definitions)
	if err != nil {
		return 0, err
	}

	if s.Redis != nil {
		s.Redis.Del(ctx, moduleCacheKey)
	}

	logger.Log.Info("learning catalog reseeded", zap.Uint("catalog_version", version))
	return version, nil
}
