package repository

import (
	"agriverse_backend/internal/model"

	"gorm.io/gorm"
)

type PurchaseRepository struct {
	DB *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{DB: db}
}

func (r *PurchaseRepository) Create(purchase *model.Purchase) error {
	return r.DB.Create(purchase).Error
}

func (r *PurchaseRepository) FindByUserAndCourse(userID, courseID uint) (*model.Purchase, error) {
	var purchase model.Purchase
	err := r.DB.
		Preload("CompletedVideos").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&purchase).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *PurchaseRepository) FindByTransactionID(transactionID string) (*model.Purchase, error) {
	var purchase model.Purchase
	err := r.DB.Where("transaction_id = ?", transactionID).First(&purchase).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// FindCompletedByUser lists the caller's confirmed purchases with course and
// mentor details for the "my courses" page.
func (r *PurchaseRepository) FindCompletedByUser(userID uint) ([]model.Purchase, error) {
	var purchases []model.Purchase
	err := r.DB.
		Preload("Course").
		Preload("Course.Mentor").
		Preload("Course.Videos", func(db *gorm.DB) *gorm.DB {
			return db.Order("course_videos.`order` ASC")
		}).
		Where("user_id = ? AND status = ?", userID, model.PurchaseCompleted).
		Find(&purchases).Error
	return purchases, err
}

func (r *PurchaseRepository) Save(tx *gorm.DB, purchase *model.Purchase) error {
	if tx == nil {
		tx = r.DB
	}
	return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(purchase).Error
}
