package service

import (
	"strings"
	"testing"

	"agriverse_backend/internal/model"
	"agriverse_backend/internal/repository"
	"agriverse_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPurchaseService(db *gorm.DB) *PurchaseService {
	return NewPurchaseService(
		repository.NewPurchaseRepository(db),
		repository.NewCourseRepository(db),
		repository.NewUserRepository(db),
		db,
	)
}

func seedCourse(t *testing.T, db *gorm.DB, mentorID uint, price float64) *model.Course {
	t.Helper()
	course := &model.Course{
		Title:       "Drip Irrigation Setup",
		Description: "Designing drip systems for smallholdings",
		Price:       price,
		Category:    "irrigation",
		MentorID:    mentorID,
		Status:      model.CoursePublished,
		Videos: []model.CourseVideo{
			{Title: "Planning", URL: "/videos/drip/1.mp4", Duration: 300, Order: 1},
			{Title: "Installation", URL: "/videos/drip/2.mp4", Duration: 600, Order: 2},
		},
	}
	require.NoError(t, db.Create(course).Error)
	return course
}

func TestInitiatePurchase(t *testing.T) {
	db := setupTestDB(t)
	svc := newPurchaseService(db)
	mentor := seedUser(t, db, "9100000001")
	buyer := seedUser(t, db, "9100000002")
	course := seedCourse(t, db, mentor.ID, 499)

	purchase, err := svc.Initiate(buyer.ID, course.ID, PurchaseInput{PaymentMethod: model.PaymentUPI})
	require.NoError(t, err)

	assert.Equal(t, model.PurchasePending, purchase.Status)
	assert.InDelta(t, 499.0, purchase.Amount, 0.001)
	assert.True(t, strings.HasPrefix(purchase.TransactionID, "TXN"))
}

func TestInitiateDuplicatePurchase(t *testing.T) {
	db := setupTestDB(t)
	svc := newPurchaseService(db)
	mentor := seedUser(t, db, "9100000003")
	buyer := seedUser(t, db, "9100000004")
	course := seedCourse(t, db, mentor.ID, 499)

	_, err := svc.Initiate(buyer.ID, course.ID, PurchaseInput{PaymentMethod: model.PaymentCard})
	require.NoError(t, err)

	_, err = svc.Initiate(buyer.ID, course.ID, PurchaseInput{PaymentMethod: model.PaymentCard})
	assert.ErrorIs(t, err, util.ErrAlreadyPurchased)
}

func TestInitiateUnknownCourse(t *testing.T) {
	db := setupTestDB(t)
	svc := newPurchaseService(db)
	buyer := seedUser(t, db, "9100000005")

	_, err := svc.Initiate(buyer.ID, 999, PurchaseInput{PaymentMethod: model.PaymentCard})
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestConfirmPurchase(t *testing.T) {
	db := setupTestDB(t)
	svc := newPurchaseService(db)
	mentor := seedUser(t, db, "9100000006")
	buyer := seedUser(t, db, "9100000007")
	course := seedCourse(t, db, mentor.ID, 750)

	purchase, err := svc.Initiate(buyer.ID, course.ID, PurchaseInput{PaymentMethod: model.PaymentNetbanking})
	require.NoError(t, err)

	confirmed, err := svc.Confirm(purchase.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseCompleted, confirmed.Status)

	// Buyer is enrolled.
	var enrollments int64
	require.NoError(t, db.Model(&model.Enrollment{}).
		Where("course_id = ? AND user_id = ?", course.ID, buyer.ID).
		Count(&enrollments).Error)
	assert.Equal(t, int64(1), enrollments)

	// Mentor is credited the full amount.
	var credited model.User
	require.NoError(t, db.First(&credited, mentor.ID).Error)
	assert.InDelta(t, 750.0, credited.Earnings, 0.001)
}

func TestConfirmIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := newPurchaseService(db)
	mentor := seedUser(t, db, "9100000008")
	buyer := seedUser(t, db, "9100000009")
	course := seedCourse(t, db, mentor.ID, 300)

	purchase, err := svc.Initiate(buyer.ID, course.ID, PurchaseInput{PaymentMethod: model.PaymentUPI})
	require.NoError(t, err)

	_, err = svc.Confirm(purchase.TransactionID)
	require.NoError(t, err)
	_, err = svc.Confirm(purchase.TransactionID)
	require.NoError(t, err)

	// Re-confirming must not double-credit the mentor.
	var credited model.User
	require.NoError(t, db.First(&credited, mentor.ID).Error)
	assert.InDelta(t, 300.0, credited.Earnings, 0.001)
}

func TestConfirmUnknownTransaction(t *testing.T) {
	db := setupTestDB(t)
	svc := newPurchaseService(db)

	_, err := svc.Confirm("TXNDOESNOTEXIST")
	assert.ErrorIs(t, err, util.ErrPurchaseNotFound)
}

func TestUpdateWatchProgress(t *testing.T) {
	db := setupTestDB(t)
	svc := newPurchaseService(db)
	mentor := seedUser(t, db, "9100000010")
	buyer := seedUser(t, db, "9100000011")
	course := seedCourse(t, db, mentor.ID, 300)

	purchase, err := svc.Initiate(buyer.ID, course.ID, PurchaseInput{PaymentMethod: model.PaymentUPI})
	require.NoError(t, err)
	_, err = svc.Confirm(purchase.TransactionID)
	require.NoError(t, err)

	var reloaded model.Course
	require.NoError(t, db.Preload("Videos").First(&reloaded, course.ID).Error)

	updated, err := svc.UpdateWatchProgress(buyer.ID, course.ID, WatchProgressInput{
		VideoID:   reloaded.Videos[0].ID,
		Timestamp: 120,
		Completed: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 50, updated.CompletionPercent)
	assert.Equal(t, reloaded.Videos[0].ID, updated.LastWatchedVideoID)

	updated, err = svc.UpdateWatchProgress(buyer.ID, course.ID, WatchProgressInput{
		VideoID:   reloaded.Videos[1].ID,
		Completed: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 100, updated.CompletionPercent)
}

func TestUpdateWatchProgressUnknownVideo(t *testing.T) {
	db := setupTestDB(t)
	svc := newPurchaseService(db)
	mentor := seedUser(t, db, "9100000012")
	buyer := seedUser(t, db, "9100000013")
	course := seedCourse(t, db, mentor.ID, 300)

	purchase, err := svc.Initiate(buyer.ID, course.ID, PurchaseInput{PaymentMethod: model.PaymentUPI})
	require.NoError(t, err)
	_, err = svc.Confirm(purchase.TransactionID)
	require.NoError(t, err)

	_, err = svc.UpdateWatchProgress(buyer.ID, course.ID, WatchProgressInput{VideoID: 9999, Completed: true})
	assert.ErrorIs(t, err, util.ErrVideoNotFound)
}

func TestUpdateWatchProgressRequiresCompletedPurchase(t *testing.T) {
	db := setupTestDB(t)
	svc := newPurchaseService(db)
	mentor := seedUser(t, db, "9100000014")
	buyer := seedUser(t, db, "9100000015")
	course := seedCourse(t, db, mentor.ID, 300)

	_, err := svc.Initiate(buyer.ID, course.ID, PurchaseInput{PaymentMethod: model.PaymentUPI})
	require.NoError(t, err)

	_, err = svc.UpdateWatchProgress(buyer.ID, course.ID, WatchProgressInput{VideoID: 1, Completed: true})
	assert.ErrorIs(t, err, util.ErrPurchaseNotFound)
}

func TestMentorStats(t *testing.T) {
	db := setupTestDB(t)
	svc := newPurchaseService(db)
	mentor := seedUser(t, db, "9100000016")
	buyer := seedUser(t, db, "9100000017")
	course := seedCourse(t, db, mentor.ID, 500)
	seedCourse(t, db, mentor.ID, 200)

	purchase, err := svc.Initiate(buyer.ID, course.ID, PurchaseInput{PaymentMethod: model.PaymentCard})
	require.NoError(t, err)
	_, err = svc.Confirm(purchase.TransactionID)
	require.NoError(t, err)

	stats, courses, err := svc.MentorStats(mentor.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalCourses)
	assert.Equal(t, int64(1), stats.TotalStudents)
	assert.InDelta(t, 500.0, stats.Earnings, 0.001)
	assert.Len(t, courses, 2)
}
