package repository

import (
	"agriverse_backend/internal/model"

	"gorm.io/gorm"
)

type ModuleRepository struct {
	DB *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

// ListOrdered returns the whole catalog with videos, in curriculum order.
func (r *ModuleRepository) ListOrdered() ([]model.Module, error) {
	var modules []model.Module
	err := r.DB.
		Preload("Videos", func(db *gorm.DB) *gorm.DB {
			return db.Order("videos.`order` ASC")
		}).
		Order("`order` ASC").
		Find(&modules).Error
	return modules, err
}

// CurrentVersion returns the catalog version of the most recent seed, 0 when
// the catalog is empty.
func (r *ModuleRepository) CurrentVersion() (uint, error) {
	var version *uint
	err := r.DB.Model(&model.Module{}).
		Select("MAX(catalog_version)").
		Scan(&version).Error
	if err != nil {
		return 0, err
	}
	if version == nil {
		return 0, nil
	}
	return *version, nil
}

// ReplaceAll destructively reseeds the catalog: delete everything, insert the
// definitions stamped with the next catalog version. Runs in one transaction
// so a failed seed rolls back to the previous catalog instead of leaving it
// empty.
func (r *ModuleRepository) ReplaceAll(definitions []model.Module) (uint, error) {
	current, err := r.CurrentVersion()
	if err != nil {
		return 0, err
	}
	next := current + 1

	err = r.DB.Transaction(func(tx *gorm.DB) error {
		// Hard delete: soft-deleted rows would keep holding the unique
		// video_id index entries.
		if err := tx.Unscoped().Where("1 = 1").Delete(&model.Video{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("1 = 1").Delete(&model.Module{}).Error; err != nil {
			return err
		}

		for i := range definitions {
			m := definitions[i]
			m.ID = 0
			m.CatalogVersion = next
			for vi := range m.Videos {
				m.Videos[vi].ID = 0
				m.Videos[vi].ModuleID = 0
			}
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) preload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("module_progress.`order` ASC")
		}).
		Preload("Modules.Videos", func(db *gorm.DB) *gorm.DB {
			return db.Order("video_progress.id ASC")
		})
}

func (r *ProgressRepository) FindByAuthID(authID uint) (*model.Progress, error) {
	var progress model.Progress
	err := r.preload(r.DB).Where("auth_id = ?", authID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) Create(progress *model.Progress) error {
	return r.DB.Create(progress).Error
}

// Save persists the record with all snapshot entries in one transaction.
func (r *ProgressRepository) Save(tx *gorm.DB, progress *model.Progress) error {
	if tx == nil {
		tx = r.DB
	}
	return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(progress).Error
}

// DeleteAll wipes every learner's progress. Admin reset only.
func (r *ProgressRepository) DeleteAll() error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("1 = 1").Delete(&model.VideoProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("1 = 1").Delete(&model.ModuleProgress{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Where("1 = 1").Delete(&model.Progress{}).Error
	})
}
