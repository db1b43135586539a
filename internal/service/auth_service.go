package service

import (
	"errors"
	"time"

	"agriverse_backend/internal/config"
	"agriverse_backend/internal/model"
	"agriverse_backend/internal/repository"
	"agriverse_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

// Register creates a user account keyed by phone number.
func (s *AuthService) Register(user *model.User) error {
	_, err := s.UserRepo.FindByPhone(user.Phone)
	if err == nil {
		return util.ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	return s.UserRepo.Create(user)
}

func (s *AuthService) Login(phone, password string) (string, *model.User, error) {
	user, err := s.UserRepo.FindByPhone(phone)
	if err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	user.LastLogin = time.Now()
	s.UserRepo.Update(user)

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// SaveInterests replaces the user's onboarding interest tags. At least
// three are required so recommendations have something to work from.
func (s *AuthService) SaveInterests(userID uint, interests []string) (*model.User, error) {
	if len(interests) < 3 {
		return nil, util.ErrTooFewInterests
	}

	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}
	user.Interests = interests
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) GetUser(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
