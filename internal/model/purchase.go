package model

import (
	"math"
)

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseCompleted PurchaseStatus = "completed"
	PurchaseFailed    PurchaseStatus = "failed"
)

type PaymentMethod string

const (
	PaymentCard       PaymentMethod = "card"
	PaymentUPI        PaymentMethod = "upi"
	PaymentNetbanking PaymentMethod = "netbanking"
)

// swagger:model Purchase
type Purchase struct {
	BaseModel
	UserID        uint           `gorm:"index:idx_user_course_purchase,unique;not null" json:"user_id"`
	CourseID      uint           `gorm:"index:idx_user_course_purchase,unique;not null" json:"course_id"`
	Course        *Course        `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Amount        float64        `gorm:"not null" json:"amount"`
	Status        PurchaseStatus `gorm:"size:20;index;default:'pending'" json:"status"`
	PaymentMethod PaymentMethod  `gorm:"size:20;not null" json:"payment_method"`
	TransactionID string         `gorm:"size:64;uniqueIndex;not null" json:"transaction_id"`

	// Watch progress inside the purchased course.
	LastWatchedVideoID  uint                 `gorm:"default:0" json:"last_watched_video_id,omitempty"`
	LastWatchedPosition int                  `gorm:"default:0" json:"last_watched_position,omitempty"`
	CompletionPercent   int                  `gorm:"default:0" json:"completion_percentage"`
	CompletedVideos     []PurchaseVideoWatch `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE" json:"completed_videos,omitempty"`
}

func (Purchase) TableName() string {
	return "purchases"
}

// PurchaseVideoWatch records one course video the buyer finished watching.
type PurchaseVideoWatch struct {
	BaseModel
	PurchaseID    uint `gorm:"index:idx_purchase_video,unique;not null" json:"-"`
	CourseVideoID uint `gorm:"index:idx_purchase_video,unique;not null" json:"course_video_id"`
}

func (PurchaseVideoWatch) TableName() string {
	return "purchase_video_watches"
}

// RecalcCompletion updates the completion percentage against the course's
// current video count.
func (p *Purchase) RecalcCompletion(totalVideos int) {
	if totalVideos == 0 {
		p.CompletionPercent = 0
		return
	}
	p.CompletionPercent = int(math.Round(float64(len(p.CompletedVideos)) / float64(totalVideos) * 100))
}
