package service

import (
	"errors"

	"agriverse_backend/internal/model"
	"agriverse_backend/internal/repository"
	"agriverse_backend/internal/util"

	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo *repository.CourseRepository
	DB         *gorm.DB
}

func NewCourseService(courseRepo *repository.CourseRepository, db *gorm.DB) *CourseService {
	return &CourseService{CourseRepo: courseRepo, DB: db}
}

type CourseInput struct {
	Title       string  `json:"title" binding:"required,max=100"`
	Description string  `json:"description" binding:"required"`
	Price       float64 `json:"price" binding:"required,gte=0"`
	Category    string  `json:"category" binding:"required"`
	Thumbnail   string  `json:"thumbnail"`
}

type CourseVideoInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	URL         string `json:"url" binding:"required"`
	Duration    int    `json:"duration"`
	Order       int    `json:"order" binding:"required"`
}

type RatingInput struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Review string `json:"review"`
}

func (s *CourseService) Create(mentorID uint, in CourseInput) (*model.Course, error) {
	course := &model.Course{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Thumbnail:   in.Thumbnail,
		MentorID:    mentorID,
		Status:      model.CourseDraft,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) List(filter repository.CourseFilter) ([]model.Course, int64, error) {
	return s.CourseRepo.ListPublished(filter)
}

func (s *CourseService) Get(id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// findOwned loads a course and enforces mentor ownership.
func (s *CourseService) findOwned(courseID, mentorID uint) (*model.Course, error) {
	course, err := s.Get(courseID)
	if err != nil {
		return nil, err
	}
	if course.MentorID != mentorID {
		return nil, util.ErrNotCourseOwner
	}
	return course, nil
}

func (s *CourseService) Update(courseID, mentorID uint, in CourseInput) (*model.Course, error) {
	course, err := s.findOwned(courseID, mentorID)
	if err != nil {
		return nil, err
	}

	course.Title = in.Title
	course.Description = in.Description
	course.Price = in.Price
	course.Category = in.Category
	if in.Thumbnail != "" {
		course.Thumbnail = in.Thumbnail
	}

	if err := s.CourseRepo.Save(course); err != nil {
		return nil, err
	}
	return course, nil
}

// SetThumbnail stores the thumbnail URL on an owned course.
func (s *CourseService) SetThumbnail(courseID, mentorID uint, url string) (*model.Course, error) {
	course, err := s.findOwned(courseID, mentorID)
	if err != nil {
		return nil, err
	}

	course.Thumbnail = url
	if err := s.CourseRepo.Save(course); err != nil {
		return nil, err
	}
	return course, nil
}

// IsEnrolled reports whether the user holds a completed purchase of the course.
func (s *CourseService) IsEnrolled(courseID, userID uint) (bool, error) {
	return s.CourseRepo.IsEnrolled(courseID, userID)
}

func (s *CourseService) UpdateStatus(courseID, mentorID uint, status model.CourseStatus) (*model.Course, error) {
	switch status {
	case model.CourseDraft, model.CoursePublished, model.CourseArchived:
	default:
		return nil, errors.New("invalid status, must be draft, published, or archived")
	}

	course, err := s.findOwned(courseID, mentorID)
	if err != nil {
		return nil, err
	}

	course.Status = status
	if err := s.CourseRepo.Save(course); err != nil {
		return nil, err
	}
	return course, nil
}

// AddVideo inserts a course video or replaces the one holding the same order
// slot, then refreshes the course's total duration.
func (s *CourseService) AddVideo(courseID, mentorID uint, in CourseVideoInput) (*model.Course, error) {
	course, err := s.findOwned(courseID, mentorID)
	if err != nil {
		return nil, err
	}

	replaced := false
	for i := range course.Videos {
		if course.Videos[i].Order == in.Order {
			course.Videos[i].Title = in.Title
			course.Videos[i].Description = in.Description
			course.Videos[i].URL = in.URL
			course.Videos[i].Duration = in.Duration
			replaced = true
			break
		}
	}
	if !replaced {
		course.Videos = append(course.Videos, model.CourseVideo{
			CourseID:    course.ID,
			Title:       in.Title,
			Description: in.Description,
			URL:         in.URL,
			Duration:    in.Duration,
			Order:       in.Order,
		})
	}

	total := 0
	for _, v := range course.Videos {
		total += v.Duration
	}
	course.TotalDuration = total

	if err := s.CourseRepo.Save(course); err != nil {
		return nil, err
	}
	return course, nil
}

// AddRating records an enrolled buyer's rating and recomputes the average.
// One rating per buyer per course; a second submission overwrites the first.
func (s *CourseService) AddRating(courseID, userID uint, in RatingInput) (*model.Course, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, util.ErrRatingOutOfRange
	}

	course, err := s.Get(courseID)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.CourseRepo.IsEnrolled(courseID, userID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrNotEnrolled
	}

	updated := false
	for i := range course.Ratings {
		if course.Ratings[i].UserID == userID {
			course.Ratings[i].Rating = in.Rating
			course.Ratings[i].Review = in.Review
			updated = true
			break
		}
	}
	if !updated {
		course.Ratings = append(course.Ratings, model.CourseRating{
			CourseID: course.ID,
			UserID:   userID,
			Rating:   in.Rating,
			Review:   in.Review,
		})
	}

	sum := 0
	for _, r := range course.Ratings {
		sum += r.Rating
	}
	course.AverageRating = float64(sum) / float64(len(course.Ratings))

	if err := s.CourseRepo.Save(course); err != nil {
		return nil, err
	}
	return course, nil
}
