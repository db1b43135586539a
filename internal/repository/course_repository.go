package repository

import (
	"agriverse_backend/internal/model"

	"gorm.io/gorm"
)

// CourseFilter captures the browse filters of the marketplace listing.
type CourseFilter struct {
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	Sort      string
	Page      int
	Limit     int
}

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Videos", func(db *gorm.DB) *gorm.DB {
			return db.Order("course_videos.`order` ASC")
		}).
		Preload("Ratings").
		Preload("Mentor").
		First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// ListPublished returns published courses matching the filter, newest first
// unless a sort column is requested.
func (r *CourseRepository) ListPublished(filter CourseFilter) ([]model.Course, int64, error) {
	query := r.DB.Model(&model.Course{}).Where("status = ?", model.CoursePublished)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.MinRating != nil {
		query = query.Where("average_rating >= ?", *filter.MinRating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.Sort {
	case "price":
		query = query.Order("price ASC")
	case "-price":
		query = query.Order("price DESC")
	case "rating":
		query = query.Order("average_rating DESC")
	default:
		query = query.Order("created_at DESC")
	}

	if filter.Limit > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.Limit
		}
		query = query.Offset(offset).Limit(filter.Limit)
	}

	var courses []model.Course
	err := query.Preload("Mentor").Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) FindByMentor(mentorID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("mentor_id = ?", mentorID).Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Save(course *model.Course) error {
	return r.DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(course).Error
}

func (r *CourseRepository) IsEnrolled(courseID, userID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *CourseRepository) CountEnrolled(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}
