package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pindada_backend/internal/model"
	"pindada_backend/internal/repository"
)

// ==================== 测试辅助 ====================

func setupProductTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.Brand{}, &model.Product{}, &model.AffiliateLink{}); err != nil {
		t.Fatalf("迁移测试表失败: %v", err)
	}
	return db
}

func newTestProductService(t *testing.T) (*ProductService, *gorm.DB) {
	t.Helper()
	db := setupProductTestDB(t)
	return NewProductService(repository.NewProductRepository(db)), db
}

// seedProducts 造 n 个上架商品，上架时间从旧到新递增
func seedProducts(t *testing.T, db *gorm.DB, n int) []model.Product {
	t.Helper()
	base := time.Now().Add(-time.Duration(n) * time.Hour)
	products := make([]model.Product, 0, n)
	for i := 0; i < n; i++ {
		p := model.Product{
			Name:       fmt.Sprintf("商品%d", i),
			ImageURL:   fmt.Sprintf("https://img.example.com/%d.jpg", i),
			CategoryID: 1,
			Status:     model.ProductStatusActive,
		}
		p.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if err := db.Create(&p).Error; err != nil {
			t.Fatalf("写入测试商品失败: %v", err)
		}
		products = append(products, p)
	}
	return products
}

// ==================== 列表 ====================

func TestProductService_ListProducts(t *testing.T) {
	svc, db := newTestProductService(t)
	seedProducts(t, db, 25)

	data, err := svc.ListProducts(context.Background(), repository.ProductFilter{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("查询商品列表失败: %v", err)
	}

	if data.Total != 25 {
		t.Errorf("total = %d, want 25", data.Total)
	}
	if data.Pages != 3 {
		t.Errorf("pages = %d, want 3", data.Pages)
	}
	if len(data.Items) != 10 {
		t.Fatalf("第一页条数 = %d, want 10", len(data.Items))
	}
	// 最新的排在最前
	if data.Items[0].Name != "商品24" {
		t.Errorf("第一条 = %q, want 商品24", data.Items[0].Name)
	}

	// 最后一页只剩 5 条
	last, err := svc.ListProducts(context.Background(), repository.ProductFilter{Page: 3, Limit: 10})
	if err != nil {
		t.Fatalf("查询最后一页失败: %v", err)
	}
	if len(last.Items) != 5 {
		t.Errorf("最后一页条数 = %d, want 5", len(last.Items))
	}
}

func TestProductService_ListProductsDefaults(t *testing.T) {
	svc, db := newTestProductService(t)
	seedProducts(t, db, 3)

	// 不传分页参数时走默认值 page=1 limit=20
	data, err := svc.ListProducts(context.Background(), repository.ProductFilter{})
	if err != nil {
		t.Fatalf("查询商品列表失败: %v", err)
	}
	if data.Page != 1 || data.Limit != 20 {
		t.Errorf("默认分页 = (%d, %d), want (1, 20)", data.Page, data.Limit)
	}
	if data.Pages != 1 {
		t.Errorf("pages = %d, want 1", data.Pages)
	}
}

func TestProductService_ListProductsExcludesInactive(t *testing.T) {
	svc, db := newTestProductService(t)
	seedProducts(t, db, 2)
	if err := db.Create(&model.Product{Name: "下架商品", Status: model.ProductStatusInactive}).Error; err != nil {
		t.Fatalf("写入下架商品失败: %v", err)
	}

	data, err := svc.ListProducts(context.Background(), repository.ProductFilter{})
	if err != nil {
		t.Fatalf("查询商品列表失败: %v", err)
	}
	if data.Total != 2 {
		t.Errorf("total = %d, want 2（下架商品不应计入）", data.Total)
	}
	for _, item := range data.Items {
		if item.Name == "下架商品" {
			t.Error("列表不应包含下架商品")
		}
	}
}

func TestProductService_ListProductsFilters(t *testing.T) {
	svc, db := newTestProductService(t)
	brand := model.Brand{Name: "测试品牌"}
	if err := db.Create(&brand).Error; err != nil {
		t.Fatalf("写入品牌失败: %v", err)
	}
	seedProducts(t, db, 3) // category_id 都是 1
	if err := db.Create(&model.Product{
		Name:       "手表",
		BrandID:    brand.ID,
		CategoryID: 2,
		Status:     model.ProductStatusActive,
	}).Error; err != nil {
		t.Fatalf("写入测试商品失败: %v", err)
	}

	byCategory, err := svc.ListProducts(context.Background(), repository.ProductFilter{CategoryID: 2})
	if err != nil {
		t.Fatalf("按分类查询失败: %v", err)
	}
	if byCategory.Total != 1 || byCategory.Items[0].Name != "手表" {
		t.Errorf("分类筛选结果不正确: total=%d", byCategory.Total)
	}

	byBrand, err := svc.ListProducts(context.Background(), repository.ProductFilter{BrandID: brand.ID})
	if err != nil {
		t.Fatalf("按品牌查询失败: %v", err)
	}
	if byBrand.Total != 1 || byBrand.Items[0].Name != "手表" {
		t.Errorf("品牌筛选结果不正确: total=%d", byBrand.Total)
	}
}

// ==================== 精选 ====================

func TestProductService_FeaturedProducts(t *testing.T) {
	svc, db := newTestProductService(t)
	seedProducts(t, db, 4)
	// 没有主图的商品不进精选
	if err := db.Create(&model.Product{Name: "无图商品", Status: model.ProductStatusActive}).Error; err != nil {
		t.Fatalf("写入测试商品失败: %v", err)
	}

	items, err := svc.FeaturedProducts(context.Background(), 0)
	if err != nil {
		t.Fatalf("查询精选失败: %v", err)
	}
	if len(items) != 4 {
		t.Errorf("精选条数 = %d, want 4", len(items))
	}
	for _, item := range items {
		if item.ImageURL == "" {
			t.Error("精选不应包含无主图商品")
		}
	}

	capped, err := svc.FeaturedProducts(context.Background(), 2)
	if err != nil {
		t.Fatalf("查询精选失败: %v", err)
	}
	if len(capped) != 2 {
		t.Errorf("限量精选条数 = %d, want 2", len(capped))
	}
}

// ==================== 专区 ====================

func TestProductService_ProductSections(t *testing.T) {
	svc, db := newTestProductService(t)
	products := seedProducts(t, db, 12)

	sections, err := svc.ProductSections(context.Background())
	if err != nil {
		t.Fatalf("查询专区失败: %v", err)
	}

	if len(sections) != 5 {
		t.Fatalf("专区数 = %d, want 5", len(sections))
	}

	wantIDs := []string{"new", "hot", "couple", "birthday", "choice"}
	for i, section := range sections {
		if section.ID != wantIDs[i] {
			t.Errorf("专区[%d] ID = %q, want %q", i, section.ID, wantIDs[i])
		}
		if section.Title == "" {
			t.Errorf("专区 %s 缺少标题", section.ID)
		}
		if len(section.Products) != 8 {
			t.Errorf("专区 %s 条数 = %d, want 8", section.ID, len(section.Products))
		}
	}

	// 新品专区按上架时间倒序
	newest := sections[0]
	if newest.Products[0].Name != products[len(products)-1].Name {
		t.Errorf("新品第一条 = %q, want %q", newest.Products[0].Name, products[len(products)-1].Name)
	}
}

// ==================== 详情 ====================

func TestProductService_ProductDetail(t *testing.T) {
	svc, db := newTestProductService(t)

	brand := model.Brand{Name: "SoundCore"}
	if err := db.Create(&brand).Error; err != nil {
		t.Fatalf("写入品牌失败: %v", err)
	}
	product := model.Product{
		Name:    "降噪耳机",
		BrandID: brand.ID,
		Status:  model.ProductStatusActive,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("写入商品失败: %v", err)
	}

	// 两条成功链接（新的优先作为购买链接）+ 一条未转换链接
	older := model.AffiliateLink{
		ProductID:     product.ID,
		Platform:      "taobao",
		AffiliateURL:  "https://s.click.example.com/old",
		ConvertStatus: model.ConvertStatusSuccess,
	}
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := model.AffiliateLink{
		ProductID:     product.ID,
		Platform:      "jd",
		AffiliateURL:  "https://u.jd.example.com/new",
		ConvertStatus: model.ConvertStatusSuccess,
	}
	newer.CreatedAt = time.Now()
	pending := model.AffiliateLink{
		ProductID:     product.ID,
		Platform:      "pdd",
		OriginalURL:   "https://pdd.example.com/raw",
		ConvertStatus: model.ConvertStatusPending,
	}
	for _, link := range []*model.AffiliateLink{&older, &newer, &pending} {
		if err := db.Create(link).Error; err != nil {
			t.Fatalf("写入联盟链接失败: %v", err)
		}
	}

	detail, err := svc.ProductDetail(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("查询商品详情失败: %v", err)
	}

	if detail.Name != "降噪耳机" {
		t.Errorf("name = %q", detail.Name)
	}
	if detail.BrandName != "SoundCore" {
		t.Errorf("brand_name = %q, want SoundCore", detail.BrandName)
	}
	// 只返回转换成功的链接
	if len(detail.AffiliateLinks) != 2 {
		t.Fatalf("链接条数 = %d, want 2", len(detail.AffiliateLinks))
	}
	if detail.AffiliateLinks[0].Platform != "jd" {
		t.Errorf("链接应按时间倒序, 第一条 = %q", detail.AffiliateLinks[0].Platform)
	}
	if detail.BuyURL == nil || *detail.BuyURL != "https://u.jd.example.com/new" {
		t.Errorf("buy_url = %v, want 最新成功链接", detail.BuyURL)
	}
	if detail.BuyPlatform == nil || *detail.BuyPlatform != "jd" {
		t.Errorf("buy_platform = %v, want jd", detail.BuyPlatform)
	}
}

func TestProductService_ProductDetailNoLinks(t *testing.T) {
	svc, db := newTestProductService(t)
	product := model.Product{Name: "无链接商品", Status: model.ProductStatusActive}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("写入商品失败: %v", err)
	}

	detail, err := svc.ProductDetail(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("查询商品详情失败: %v", err)
	}
	if len(detail.AffiliateLinks) != 0 {
		t.Errorf("链接条数 = %d, want 0", len(detail.AffiliateLinks))
	}
	if detail.BuyURL != nil || detail.BuyPlatform != nil {
		t.Error("没有成功链接时购买链接应为空")
	}
}

func TestProductService_ProductDetailNotFound(t *testing.T) {
	svc, _ := newTestProductService(t)

	_, err := svc.ProductDetail(context.Background(), 99999)
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("err = %v, want ErrProductNotFound", err)
	}
}
