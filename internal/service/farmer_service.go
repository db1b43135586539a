package service

import (
	"errors"

	"agriverse_backend/internal/model"
	"agriverse_backend/internal/repository"
	"agriverse_backend/internal/util"
	"agriverse_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type FarmerService struct {
	FarmerRepo *repository.FarmerRepository
	UserRepo   *repository.UserRepository
	DB         *gorm.DB
}

func NewFarmerService(farmerRepo *repository.FarmerRepository, userRepo *repository.UserRepository, db *gorm.DB) *FarmerService {
	return &FarmerService{
		FarmerRepo: farmerRepo,
		UserRepo:   userRepo,
		DB:         db,
	}
}

type FarmerRegistration struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location" binding:"required"`
	FarmSize string `json:"farm_size" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Aadhaar  string `json:"aadhaar" binding:"required"`
	Satbara  string `json:"satbara" binding:"required"`
}

// VerificationStatus is the read view of the farmer's derived trust state.
type VerificationStatus struct {
	VerificationScore float64          `json:"verification_score"`
	IsVerified        bool             `json:"is_verified"`
	Rank              model.FarmerRank `json:"rank"`
	CommissionRate    int              `json:"commission_rate"`
}

// Register creates the farmer profile for the authenticated user and flips
// their account role to farmer, in one transaction. One profile per account.
func (s *FarmerService) Register(authID uint, reg FarmerRegistration) (*model.Farmer, error) {
	_, err := s.FarmerRepo.FindByAuthID(authID)
	if err == nil {
		return nil, util.ErrFarmerExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	farmer := &model.Farmer{
		AuthID:   authID,
		Name:     reg.Name,
		Location: reg.Location,
		FarmSize: reg.FarmSize,
		Phone:    reg.Phone,
		Aadhaar:  reg.Aadhaar,
		Satbara:  reg.Satbara,
		Rank:     model.RankBronze,
		// Bronze commission until the first score recompute.
		CommissionRate: 15,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(farmer).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).
			Where("id = ?", authID).
			Update("role", model.RoleFarmer).
			Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrFarmerExists
		}
		return nil, err
	}

	logger.Log.Info("farmer registered", zap.Uint("auth_id", authID), zap.String("name", farmer.Name))
	return farmer, nil
}

func (s *FarmerService) Profile(authID uint) (*model.Farmer, error) {
	farmer, err := s.FarmerRepo.FindByAuthID(authID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrFarmerNotFound
		}
		return nil, err
	}
	return farmer, nil
}

// SetVerificationScore is the manual override entry point: it bypasses the
// progress-derived computation and sets the score directly, then rederives
// rank and commission.
func (s *FarmerService) SetVerificationScore(authID uint, score float64) (*model.Farmer, error) {
	if score < 0 || score > 100 {
		return nil, util.ErrScoreOutOfRange
	}

	farmer, err := s.Profile(authID)
	if err != nil {
		return nil, err
	}

	farmer.VerificationScore = score
	farmer.UpdateScores()
	if err := s.FarmerRepo.Save(nil, farmer); err != nil {
		return nil, err
	}

	logger.Log.Info("verification score overridden",
		zap.Uint("auth_id", authID),
		zap.Float64("verification_score", score),
	)
	return farmer, nil
}

// SetRatingScore ingests the marketplace rating input (0..100) and rederives
// the farmer's rank. Admin boundary for the externally supplied metric.
func (s *FarmerService) SetRatingScore(farmerID uint, score float64) (*model.Farmer, error) {
	if score < 0 || score > 100 {
		return nil, util.ErrScoreOutOfRange
	}

	farmer, err := s.FarmerRepo.FindByID(farmerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrFarmerNotFound
		}
		return nil, err
	}

	farmer.RatingScore = score
	farmer.UpdateScores()
	if err := s.FarmerRepo.Save(nil, farmer); err != nil {
		return nil, err
	}

	return farmer, nil
}

func (s *FarmerService) Status(authID uint) (*VerificationStatus, error) {
	farmer, err := s.Profile(authID)
	if err != nil {
		return nil, err
	}

	return &VerificationStatus{
		VerificationScore: farmer.VerificationScore,
		IsVerified:        farmer.IsVerified,
		Rank:              farmer.Rank,
		CommissionRate:    farmer.CommissionRate,
	}, nil
}
