package repository

import (
	"agriverse_backend/internal/model"

	"gorm.io/gorm"
)

type FarmerRepository struct {
	DB *gorm.DB
}

func NewFarmerRepository(db *gorm.DB) *FarmerRepository {
	return &FarmerRepository{DB: db}
}

func (r *FarmerRepository) Create(farmer *model.Farmer) error {
	return r.DB.Create(farmer).Error
}

func (r *FarmerRepository) FindByID(id uint) (*model.Farmer, error) {
	var farmer model.Farmer
	err := r.DB.First(&farmer, id).Error
	if err != nil {
		return nil, err
	}
	return &farmer, nil
}

func (r *FarmerRepository) FindByAuthID(authID uint) (*model.Farmer, error) {
	var farmer model.Farmer
	err := r.DB.Where("auth_id = ?", authID).First(&farmer).Error
	if err != nil {
		return nil, err
	}
	return &farmer, nil
}

func (r *FarmerRepository) Save(tx *gorm.DB, farmer *model.Farmer) error {
	if tx == nil {
		tx = r.DB
	}
	return tx.Save(farmer).Error
}
