package model

type CourseStatus string

const (
	CourseDraft     CourseStatus = "draft"
	CoursePublished CourseStatus = "published"
	CourseArchived  CourseStatus = "archived"
)

// swagger:model Course
type Course struct {
	BaseModel
	Title         string         `gorm:"size:100;not null" json:"title"`
	Description   string         `gorm:"type:text;not null" json:"description"`
	Price         float64        `gorm:"not null" json:"price"`
	MentorID      uint           `gorm:"index;not null" json:"mentor_id"`
	Mentor        *User          `gorm:"foreignKey:MentorID" json:"mentor,omitempty"`
	Thumbnail     string         `gorm:"size:255" json:"thumbnail"`
	Category      string         `gorm:"size:100;index;not null" json:"category"`
	Status        CourseStatus   `gorm:"size:20;index;default:'draft'" json:"status"`
	TotalDuration int            `gorm:"default:0" json:"total_duration"`
	AverageRating float64        `gorm:"default:0" json:"average_rating"`
	Videos        []CourseVideo  `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"videos,omitempty"`
	Ratings       []CourseRating `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"ratings,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

type CourseVideo struct {
	BaseModel
	CourseID    uint   `gorm:"index;not null" json:"-"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	URL         string `gorm:"size:255;not null" json:"url"`
	Duration    int    `gorm:"default:0" json:"duration"`
	Order       int    `gorm:"default:0" json:"order"`
}

func (CourseVideo) TableName() string {
	return "course_videos"
}

type CourseRating struct {
	BaseModel
	CourseID uint   `gorm:"index:idx_course_user_rating,unique;not null" json:"-"`
	UserID   uint   `gorm:"index:idx_course_user_rating,unique;not null" json:"user_id"`
	Rating   int    `gorm:"not null" json:"rating"` // 1..5
	Review   string `gorm:"type:text" json:"review,omitempty"`
}

func (CourseRating) TableName() string {
	return "course_ratings"
}

// Enrollment links a buyer to a course after a confirmed purchase.
type Enrollment struct {
	BaseModel
	CourseID uint `gorm:"index:idx_course_user_enroll,unique;not null" json:"course_id"`
	UserID   uint `gorm:"index:idx_course_user_enroll,unique;not null" json:"user_id"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
