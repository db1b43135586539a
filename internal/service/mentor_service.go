package service

import (
	"errors"

	"agriverse_backend/internal/model"
	"agriverse_backend/internal/repository"
	"agriverse_backend/internal/util"

	"gorm.io/gorm"
)

type MentorService struct {
	UserRepo *repository.UserRepository
}

func NewMentorService(userRepo *repository.UserRepository) *MentorService {
	return &MentorService{UserRepo: userRepo}
}

type MentorProfileInput struct {
	Name      string `json:"name"`
	Bio       string `json:"bio" binding:"required"`
	Expertise string `json:"expertise" binding:"required"`
}

// Register promotes the account to mentor and fills in the teaching profile.
// Re-registering just updates the profile fields.
func (s *MentorService) Register(userID uint, in MentorProfileInput) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if in.Name != "" {
		user.Name = in.Name
	}
	user.Bio = in.Bio
	user.Expertise = in.Expertise
	if user.Role == model.RoleUser {
		user.Role = model.RoleMentor
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *MentorService) Profile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
