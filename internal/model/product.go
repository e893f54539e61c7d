package model

// ==================== 商品状态 ====================

const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

// ==================== 商品 (SPU) ====================

// Product 商品基础实体，本服务只读
type Product struct {
	BaseModel
	Name        string `gorm:"size:255;not null" json:"name"`
	ImageURL    string `gorm:"type:text" json:"image_url"`
	BrandID     int64  `gorm:"index" json:"brand_id"`
	CategoryID  int64  `gorm:"index" json:"category_id"`
	Description string `gorm:"type:text" json:"description"`
	Status      string `gorm:"size:20;index;default:'active'" json:"status"`

	Brand          *Brand          `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	AffiliateLinks []AffiliateLink `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string { return "products" }

// ==================== 品牌 ====================

// Brand 品牌
type Brand struct {
	BaseModel
	Name    string `gorm:"size:100;not null" json:"name"`
	LogoURL string `gorm:"type:text" json:"logo_url"`
}

func (Brand) TableName() string { return "brands" }

// ==================== 联盟链接 ====================

// 链接转换状态
const (
	ConvertStatusSuccess = "success"
	ConvertStatusPending = "pending"
	ConvertStatusFailed  = "failed"
)

// AffiliateLink 商品在某外部电商平台的推广链接
// 只有 convert_status = success 的链接会对外输出，
// 其中创建时间最新的一条作为默认购买链接
type AffiliateLink struct {
	BaseModel
	ProductID     int64  `gorm:"index;not null" json:"product_id"`
	Platform      string `gorm:"size:32;not null" json:"platform"`
	OriginalURL   string `gorm:"type:text" json:"original_url"`
	AffiliateURL  string `gorm:"type:text" json:"affiliate_url"`
	ConvertStatus string `gorm:"size:20;index;default:'pending'" json:"convert_status"`
}

func (AffiliateLink) TableName() string { return "affiliate_links" }
