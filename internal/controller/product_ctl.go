package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pindada_backend/internal/repository"
	"pindada_backend/internal/service"
)

type ProductController struct {
	productService *service.ProductService
}

func NewProductController(productService *service.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

// ListProducts 商品列表
// @Summary 分页查询上架商品，支持分类/品牌筛选
// @Tags Product
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Param category_id query int false "分类筛选"
// @Param brand_id query int false "品牌筛选"
// @Success 200 {object} dto.ProductListData
// @Router /products [get]
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	categoryID, _ := strconv.ParseInt(c.Query("category_id"), 10, 64)
	brandID, _ := strconv.ParseInt(c.Query("brand_id"), 10, 64)

	data, err := ctrl.productService.ListProducts(c.Request.Context(), repository.ProductFilter{
		CategoryID: categoryID,
		BrandID:    brandID,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "查询失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// FeaturedProducts 随机精选商品
// @Summary 随机返回有主图的上架商品，每次结果不同
// @Tags Product
// @Param limit query int false "数量" default(6)
// @Success 200 {object} map[string]interface{}
// @Router /products/featured [get]
func (ctrl *ProductController) FeaturedProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "6"))

	items, err := ctrl.productService.FeaturedProducts(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "查询失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": items})
}

// ProductSections 首页专区
// @Summary 返回五个固定专区，随机专区每次独立取样
// @Tags Product
// @Success 200 {object} map[string]interface{}
// @Router /products/sections [get]
func (ctrl *ProductController) ProductSections(c *gin.Context) {
	sections, err := ctrl.productService.ProductSections(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "查询失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": sections})
}

// ProductDetail 商品详情
// @Summary 商品详情，带品牌名和联盟购买链接
// @Tags Product
// @Param id path int true "商品ID"
// @Success 200 {object} dto.ProductDetail
// @Router /products/{id} [get]
func (ctrl *ProductController) ProductDetail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "无效的商品ID"})
		return
	}

	detail, err := ctrl.productService.ProductDetail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "商品不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "查询失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": detail})
}
