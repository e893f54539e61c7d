package repository

import (
	"context"

	"gorm.io/gorm"

	"pindada_backend/internal/model"
)

// ==================== 接口定义 ====================

// ProductRepository 商品仓储接口，本服务只读
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)
	ListNewest(ctx context.Context, limit int) ([]model.Product, error)
	ListRandom(ctx context.Context, limit int) ([]model.Product, error)
	ListFeatured(ctx context.Context, limit int) ([]model.Product, error)
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	GetSuccessLinks(ctx context.Context, productID int64) ([]model.AffiliateLink, error)
}

// ==================== 过滤条件 ====================

// ProductFilter 商品列表过滤条件，筛选值一律走参数绑定
type ProductFilter struct {
	CategoryID int64
	BrandID    int64
	Page       int
	Limit      int
}

// ==================== 仓储实现 ====================

type productRepo struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepo{db: db}
}

// activeQuery 所有读取口径都只包含上架商品
func (r *productRepo) activeQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("status = ?", model.ProductStatusActive)
}

func (r *productRepo) List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	query := r.activeQuery(ctx)

	if filter.CategoryID > 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.BrandID > 0 {
		query = query.Where("brand_id = ?", filter.BrandID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	offset := (filter.Page - 1) * filter.Limit
	err := query.
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(offset).
		Find(&products).Error

	return products, total, err
}

func (r *productRepo) ListNewest(ctx context.Context, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.activeQuery(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

// ListRandom 数据库原生乱序取样，每次调用结果都不同
func (r *productRepo) ListRandom(ctx context.Context, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.activeQuery(ctx).
		Order("RANDOM()").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *productRepo) ListFeatured(ctx context.Context, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.activeQuery(ctx).
		Where("image_url <> ''").
		Order("RANDOM()").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Preload("Brand").
		First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetSuccessLinks 取转换成功的联盟链接，最新的排在最前
func (r *productRepo) GetSuccessLinks(ctx context.Context, productID int64) ([]model.AffiliateLink, error) {
	var links []model.AffiliateLink
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND convert_status = ?", productID, model.ConvertStatusSuccess).
		Order("created_at DESC").
		Find(&links).Error
	return links, err
}
