package util

import "errors"

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrTooFewInterests    = errors.New("please select at least 3 interests")

	ErrVideoNotFound = errors.New("video not found")

	ErrFarmerExists     = errors.New("already registered as farmer")
	ErrFarmerNotFound   = errors.New("farmer profile not found")
	ErrScoreOutOfRange  = errors.New("score must be between 0 and 100")
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")

	ErrCourseNotFound   = errors.New("course not found")
	ErrNotCourseOwner   = errors.New("you can only modify your own courses")
	ErrNotEnrolled      = errors.New("you must be enrolled in the course")
	ErrAlreadyPurchased = errors.New("you have already purchased this course")
	ErrPurchaseNotFound = errors.New("purchase not found")
)
