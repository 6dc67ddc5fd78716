package handlers

import (
	"net/http"

	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
	"github.com/andresuchdata/stockroom/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type SupplierHandler struct {
	service *service.SupplierService
}

func NewSupplierHandler(service *service.SupplierService) *SupplierHandler {
	return &SupplierHandler{service: service}
}

func (h *SupplierHandler) Create(c *gin.Context) {
	var req domain.Supplier
	if !bindJSON(c, &req) {
		return
	}
	supplier, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Supplier created successfully", supplier)
}

func (h *SupplierHandler) List(c *gin.Context) {
	page, err := h.service.List(c.Request.Context(), parseListParams(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Suppliers retrieved successfully", page)
}

func (h *SupplierHandler) Get(c *gin.Context) {
	supplier, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Supplier retrieved successfully", supplier)
}

func (h *SupplierHandler) Update(c *gin.Context) {
	var patch domain.SupplierPatch
	if !bindJSON(c, &patch) {
		return
	}
	supplier, err := h.service.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Supplier updated successfully", supplier)
}

func (h *SupplierHandler) Delete(c *gin.Context) {
	deleted, err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		respondError(c, domain.NotFound("supplier not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Supplier deleted successfully"})
}

func (h *SupplierHandler) Total(c *gin.Context) {
	total, err := h.service.Count(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Get supplier total successfully", total)
}

type CategoryHandler struct {
	service *service.CategoryService
}

func NewCategoryHandler(service *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req domain.Category
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Category created successfully", category)
}

func (h *CategoryHandler) List(c *gin.Context) {
	page, err := h.service.List(c.Request.Context(), parseListParams(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Categories retrieved successfully", page)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	category, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Category retrieved successfully", category)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	var patch domain.CategoryPatch
	if !bindJSON(c, &patch) {
		return
	}
	category, err := h.service.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Category updated successfully", category)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	deleted, err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		respondError(c, domain.NotFound("category not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

func (h *CategoryHandler) Total(c *gin.Context) {
	total, err := h.service.Count(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Get category total successfully", total)
}

type ProductHandler struct {
	service *service.ProductService
	summary *service.StockSummaryService
}

func NewProductHandler(service *service.ProductService, summary *service.StockSummaryService) *ProductHandler {
	return &ProductHandler{service: service, summary: summary}
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req domain.Product
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Product created successfully", product)
}

func (h *ProductHandler) List(c *gin.Context) {
	page, err := h.service.List(c.Request.Context(), parseListParams(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Products retrieved successfully", page)
}

func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Product retrieved successfully", product)
}

func (h *ProductHandler) Stock(c *gin.Context) {
	stock, err := h.summary.GetProductStock(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Product stock retrieved successfully", stock)
}

func (h *ProductHandler) Update(c *gin.Context) {
	var patch domain.ProductPatch
	if !bindJSON(c, &patch) {
		return
	}
	product, err := h.service.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Product updated successfully", product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	deleted, err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		respondError(c, domain.NotFound("product not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (h *ProductHandler) Total(c *gin.Context) {
	total, err := h.service.Count(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Get product total successfully", total)
}
