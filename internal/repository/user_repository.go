package repository

import (
	"agriverse_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByPhone(phone string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("phone = ?", phone).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdateRole(userID uint, role model.UserRole) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("role", role).
		Error
}

func (r *UserRepository) AddEarnings(userID uint, amount float64) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("earnings", gorm.Expr("earnings + ?", amount)).
		Error
}
