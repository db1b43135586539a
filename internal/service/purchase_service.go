package service

import (
	"errors"
	"fmt"
	"strings"

	"agriverse_backend/internal/model"
	"agriverse_backend/internal/repository"
	"agriverse_backend/internal/util"
	"agriverse_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PurchaseService struct {
	PurchaseRepo *repository.PurchaseRepository
	CourseRepo   *repository.CourseRepository
	UserRepo     *repository.UserRepository
	DB           *gorm.DB
}

func NewPurchaseService(
	purchaseRepo *repository.PurchaseRepository,
	courseRepo *repository.CourseRepository,
	userRepo *repository.UserRepository,
	db *gorm.DB,
) *PurchaseService {
	return &PurchaseService{
		PurchaseRepo: purchaseRepo,
		CourseRepo:   courseRepo,
		UserRepo:     userRepo,
		DB:           db,
	}
}

type PurchaseInput struct {
	PaymentMethod model.PaymentMethod `json:"payment_method" binding:"required,oneof=card upi netbanking"`
}

type WatchProgressInput struct {
	VideoID   uint `json:"video_id" binding:"required"`
	Timestamp int  `json:"timestamp"`
	Completed bool `json:"completed"`
}

func newTransactionID() string {
	return "TXN" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
}

// Initiate opens a pending purchase for the course at its current price.
func (s *PurchaseService) Initiate(userID, courseID uint, in PurchaseInput) (*model.Purchase, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if _, err := s.PurchaseRepo.FindByUserAndCourse(userID, courseID); err == nil {
		return nil, util.ErrAlreadyPurchased
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	purchase := &model.Purchase{
		UserID:        userID,
		CourseID:      courseID,
		Amount:        course.Price,
		PaymentMethod: in.PaymentMethod,
		TransactionID: newTransactionID(),
		Status:        model.PurchasePending,
	}

	if err := s.PurchaseRepo.Create(purchase); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyPurchased
		}
		return nil, err
	}

	return purchase, nil
}

// Confirm completes a pending purchase: marks it completed, enrolls the buyer
// and credits the mentor, all in one transaction. Payment verification against
// a gateway is out of scope; the transaction id is trusted.
func (s *PurchaseService) Confirm(transactionID string) (*model.Purchase, error) {
	purchase, err := s.PurchaseRepo.FindByTransactionID(transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPurchaseNotFound
		}
		return nil, err
	}

	if purchase.Status == model.PurchaseCompleted {
		return purchase, nil
	}

	course, err := s.CourseRepo.FindByID(purchase.CourseID)
	if err != nil {
		return nil, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		purchase.Status = model.PurchaseCompleted
		if err := tx.Save(purchase).Error; err != nil {
			return err
		}

		enrollment := &model.Enrollment{CourseID: purchase.CourseID, UserID: purchase.UserID}
		if err := tx.Create(enrollment).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}

		return tx.Model(&model.User{}).
			Where("id = ?", course.MentorID).
			Update("earnings", gorm.Expr("earnings + ?", purchase.Amount)).
			Error
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("purchase confirmed",
		zap.String("transaction_id", transactionID),
		zap.Uint("course_id", purchase.CourseID),
		zap.Uint("user_id", purchase.UserID),
	)
	return purchase, nil
}

func (s *PurchaseService) MyCourses(userID uint) ([]model.Purchase, error) {
	return s.PurchaseRepo.FindCompletedByUser(userID)
}

// UpdateWatchProgress records the last watched position and, when a video is
// finished, recomputes the completion percentage against the course's video
// count.
func (s *PurchaseService) UpdateWatchProgress(userID, courseID uint, in WatchProgressInput) (*model.Purchase, error) {
	purchase, err := s.PurchaseRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPurchaseNotFound
		}
		return nil, err
	}
	if purchase.Status != model.PurchaseCompleted {
		return nil, util.ErrPurchaseNotFound
	}

	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, err
	}

	videoKnown := false
	for _, v := range course.Videos {
		if v.ID == in.VideoID {
			videoKnown = true
			break
		}
	}
	if !videoKnown {
		return nil, util.ErrVideoNotFound
	}

	purchase.LastWatchedVideoID = in.VideoID
	purchase.LastWatchedPosition = in.Timestamp

	if in.Completed {
		already := false
		for _, w := range purchase.CompletedVideos {
			if w.CourseVideoID == in.VideoID {
				already = true
				break
			}
		}
		if !already {
			purchase.CompletedVideos = append(purchase.CompletedVideos, model.PurchaseVideoWatch{
				PurchaseID:    purchase.ID,
				CourseVideoID: in.VideoID,
			})
		}
	}

	purchase.RecalcCompletion(len(course.Videos))

	if err := s.PurchaseRepo.Save(nil, purchase); err != nil {
		return nil, err
	}
	return purchase, nil
}

// MentorStats aggregates a mentor's marketplace footprint for the profile and
// earnings pages.
type MentorStats struct {
	TotalCourses     int     `json:"total_courses"`
	PublishedCourses int     `json:"published_courses"`
	TotalStudents    int64   `json:"total_students"`
	Earnings         float64 `json:"earnings"`
	AverageRating    float64 `json:"average_rating"`
}

func (s *PurchaseService) MentorStats(mentorID uint) (*MentorStats, []model.Course, error) {
	mentor, err := s.UserRepo.FindByID(mentorID)
	if err != nil {
		return nil, nil, fmt.Errorf("load mentor: %w", err)
	}

	courses, err := s.CourseRepo.FindByMentor(mentorID)
	if err != nil {
		return nil, nil, err
	}

	stats := &MentorStats{
		TotalCourses: len(courses),
		Earnings:     mentor.Earnings,
	}

	ratingSum := 0.0
	for _, c := range courses {
		if c.Status == model.CoursePublished {
			stats.PublishedCourses++
		}
		enrolled, err := s.CourseRepo.CountEnrolled(c.ID)
		if err != nil {
			return nil, nil, err
		}
		stats.TotalStudents += enrolled
		ratingSum += c.AverageRating
	}
	if len(courses) > 0 {
		stats.AverageRating = ratingSum / float64(len(courses))
	}

	return stats, courses, nil
}
