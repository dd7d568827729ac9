package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/sterlingsteels/itdesk/internal"
	"github.com/sterlingsteels/itdesk/internal/asset"
)

// AssetRepository implements the asset.Repository interface using GORM
type AssetRepository struct {
	db *gorm.DB
}

func NewAssetRepository(db *gorm.DB) asset.Repository {
	return &AssetRepository{db: db}
}

func (r *AssetRepository) Create(a *asset.Asset) error {
	if err := r.db.Create(a).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.NewConflictError("Asset tag already exists", internal.ErrCodeValidationFailed)
		}
		return err
	}
	return nil
}

func (r *AssetRepository) GetAll() ([]*asset.Asset, error) {
	var assets []*asset.Asset
	err := r.db.Order("created_at DESC").Find(&assets).Error
	return assets, err
}

func (r *AssetRepository) GetByID(id int64) (*asset.Asset, error) {
	var a asset.Asset
	err := r.db.Where("id = ?", id).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrAssetNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AssetRepository) GetByTag(tag string) (*asset.Asset, error) {
	var a asset.Asset
	err := r.db.Where("asset_tag = ?", tag).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrAssetNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AssetRepository) Update(a *asset.Asset) error {
	a.UpdatedAt = time.Now()
	return r.db.Save(a).Error
}

func (r *AssetRepository) Delete(id int64) error {
	return r.db.Delete(&asset.Asset{}, id).Error
}
