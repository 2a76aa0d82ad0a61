package implementation

import (
	"context"
	"errors"

	"tyrechat-be/internal/entity"
	"tyrechat-be/internal/mapper"
	"tyrechat-be/internal/model"
	"tyrechat-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TyreRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CatalogueMapper
}

func NewTyreRepository(db *gorm.DB) contract.TyreRepository {
	return &TyreRepositoryImpl{
		db:     db,
		mapper: mapper.NewCatalogueMapper(),
	}
}

func (r *TyreRepositoryImpl) Search(ctx context.Context, filter contract.TyreFilter) ([]entity.Tyre, error) {
	query := r.db.WithContext(ctx).Model(&model.Tyre{})
	if filter.Dimension != "" {
		query = query.Where("dimension = ?", filter.Dimension)
	}
	if filter.VehicleType != "" {
		query = query.Where("vehicle_type = ?", filter.VehicleType)
	}
	if filter.Segment != "" {
		query = query.Where("segment = ?", filter.Segment)
	}
	if filter.ModelName != "" {
		query = query.Where("model_name ILIKE ?", "%"+filter.ModelName+"%")
	}
	if filter.MaxPrice > 0 {
		query = query.Where("mrp <= ?", filter.MaxPrice)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}

	var models []model.Tyre
	if err := query.Order("mrp ASC").Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.TyresToEntities(models), nil
}

func (r *TyreRepositoryImpl) FindByModelName(ctx context.Context, name string) (*entity.Tyre, error) {
	var m model.Tyre
	err := r.db.WithContext(ctx).Where("model_name ILIKE ?", name).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.TyreToEntity(&m), nil
}

type DealerRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CatalogueMapper
}

func NewDealerRepository(db *gorm.DB) contract.DealerRepository {
	return &DealerRepositoryImpl{
		db:     db,
		mapper: mapper.NewCatalogueMapper(),
	}
}

func (r *DealerRepositoryImpl) FindByPincode(ctx context.Context, pincode string, limit int) ([]entity.Dealer, error) {
	if limit <= 0 {
		limit = 5
	}
	var models []model.Dealer
	err := r.db.WithContext(ctx).
		Where("pincode = ?", pincode).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.DealersToEntities(models), nil
}

func (r *DealerRepositoryImpl) FindByCity(ctx context.Context, city string, limit int) ([]entity.Dealer, error) {
	if limit <= 0 {
		limit = 5
	}
	var models []model.Dealer
	err := r.db.WithContext(ctx).
		Where("city ILIKE ?", city).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.DealersToEntities(models), nil
}

func (r *DealerRepositoryImpl) FindNearby(ctx context.Context, lat, lon float64, limit int) ([]entity.Dealer, error) {
	if limit <= 0 {
		limit = 5
	}
	var models []model.Dealer
	// Squared-euclidean over lat/lon is good enough for city-scale ranking.
	err := r.db.WithContext(ctx).
		Clauses(clause.OrderBy{
			Expression: gorm.Expr("(latitude - ?) * (latitude - ?) + (longitude - ?) * (longitude - ?) ASC", lat, lat, lon, lon),
		}).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.DealersToEntities(models), nil
}
