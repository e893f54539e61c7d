package dto

import "time"

// ==================== 商品列表 ====================

// ProductItem 列表中的单个商品
type ProductItem struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	ImageURL    string    `json:"image_url"`
	BrandID     int64     `json:"brand_id"`
	CategoryID  int64     `json:"category_id"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductListData 分页数据
type ProductListData struct {
	Items []ProductItem `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Pages int           `json:"pages"`
}

// ==================== 专区 ====================

// ProductSection 首页商品专区
type ProductSection struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Products []ProductItem `json:"products"`
}

// ==================== 商品详情 ====================

// AffiliateLinkItem 对外输出的联盟链接（仅转换成功的）
type AffiliateLinkItem struct {
	ID           int64     `json:"id"`
	Platform     string    `json:"platform"`
	AffiliateURL string    `json:"affiliate_url"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProductDetail 商品详情，带品牌名和默认购买链接
type ProductDetail struct {
	ProductItem
	BrandName      string              `json:"brand_name"`
	AffiliateLinks []AffiliateLinkItem `json:"affiliate_links"`
	BuyURL         *string             `json:"buy_url"`
	BuyPlatform    *string             `json:"buy_platform"`
}
