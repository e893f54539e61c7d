package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"pindada_backend/internal/api/dto"
	"pindada_backend/internal/model"
	"pindada_backend/internal/repository"
)

// ==================== 服务 ====================

// ProductService 商品读取服务
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// ==================== 列表 ====================

// ListProducts 分页查询上架商品
func (s *ProductService) ListProducts(ctx context.Context, filter repository.ProductFilter) (*dto.ProductListData, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("查询商品失败: %w", err)
	}

	pages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	return &dto.ProductListData{
		Items: toProductItems(products),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
		Pages: pages,
	}, nil
}

// FeaturedProducts 随机精选，只取有主图的上架商品
func (s *ProductService) FeaturedProducts(ctx context.Context, limit int) ([]dto.ProductItem, error) {
	if limit <= 0 {
		limit = 6
	}
	products, err := s.productRepo.ListFeatured(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("查询商品失败: %w", err)
	}
	return toProductItems(products), nil
}

// ==================== 专区 ====================

const sectionLimit = 8

// 首页五个固定专区：新品按上架时间排，其余各自独立随机取样
var sectionDefs = []struct {
	id     string
	title  string
	random bool
}{
	{"new", "新品上架", false},
	{"hot", "热门推荐", true},
	{"couple", "甜蜜心意", true},
	{"birthday", "生日好礼", true},
	{"choice", "编辑精选", true},
}

// ProductSections 首页专区，每次调用各专区独立重新取样
func (s *ProductService) ProductSections(ctx context.Context) ([]dto.ProductSection, error) {
	sections := make([]dto.ProductSection, 0, len(sectionDefs))
	for _, def := range sectionDefs {
		var products []model.Product
		var err error
		if def.random {
			products, err = s.productRepo.ListRandom(ctx, sectionLimit)
		} else {
			products, err = s.productRepo.ListNewest(ctx, sectionLimit)
		}
		if err != nil {
			return nil, fmt.Errorf("查询专区 %s 失败: %w", def.id, err)
		}
		sections = append(sections, dto.ProductSection{
			ID:       def.id,
			Title:    def.title,
			Products: toProductItems(products),
		})
	}
	return sections, nil
}

// ==================== 详情 ====================

// ProductDetail 商品详情，附品牌名和转换成功的联盟链接
// 最新的成功链接作为默认购买链接，没有则为 null
func (s *ProductService) ProductDetail(ctx context.Context, id int64) (*dto.ProductDetail, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("查询商品失败: %w", err)
	}

	links, err := s.productRepo.GetSuccessLinks(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("查询联盟链接失败: %w", err)
	}

	detail := &dto.ProductDetail{
		ProductItem:    toProductItem(product),
		AffiliateLinks: make([]dto.AffiliateLinkItem, 0, len(links)),
	}
	if product.Brand != nil {
		detail.BrandName = product.Brand.Name
	}
	for _, link := range links {
		detail.AffiliateLinks = append(detail.AffiliateLinks, dto.AffiliateLinkItem{
			ID:           link.ID,
			Platform:     link.Platform,
			AffiliateURL: link.AffiliateURL,
			CreatedAt:    link.CreatedAt,
		})
	}
	if len(links) > 0 {
		detail.BuyURL = &links[0].AffiliateURL
		detail.BuyPlatform = &links[0].Platform
	}

	return detail, nil
}

// ==================== DTO 转换 ====================

func toProductItem(p *model.Product) dto.ProductItem {
	return dto.ProductItem{
		ID:          p.ID,
		Name:        p.Name,
		ImageURL:    p.ImageURL,
		BrandID:     p.BrandID,
		CategoryID:  p.CategoryID,
		Description: p.Description,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
	}
}

func toProductItems(products []model.Product) []dto.ProductItem {
	items := make([]dto.ProductItem, 0, len(products))
	for i := range products {
		items = append(items, toProductItem(&products[i]))
	}
	return items
}

// ==================== 错误定义 ====================

var (
	ErrProductNotFound = errors.New("商品不存在")
)
