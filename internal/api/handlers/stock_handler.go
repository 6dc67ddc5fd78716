package handlers

import (
	"net/http"

	"github.com/andresuchdata/stockroom/backend-go/internal/api/middleware"
	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
	"github.com/andresuchdata/stockroom/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type StockInHandler struct {
	service *service.StockInService
}

func NewStockInHandler(service *service.StockInService) *StockInHandler {
	return &StockInHandler{service: service}
}

func (h *StockInHandler) CreateInvoice(c *gin.Context) {
	var req domain.NewStockIn
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.service.CreateStockIn(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Invoice created successfully.", result)
}

func (h *StockInHandler) ListInvoices(c *gin.Context) {
	page, err := h.service.ListInvoices(c.Request.Context(), parseListParams(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Invoices retrieved successfully", page)
}

func (h *StockInHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.service.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Invoice retrieved successfully", invoice)
}

func (h *StockInHandler) InvoiceTotal(c *gin.Context) {
	total, err := h.service.CountInvoices(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Get invoice total successfully", total)
}

func (h *StockInHandler) DeleteInvoice(c *gin.Context) {
	deleted, err := h.service.DeleteInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		respondError(c, domain.NotFound("invoice not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
}

type updateInvoiceItemRequest struct {
	Invoice domain.InvoiceUpdate `json:"invoice"`
	Item    domain.ItemUpdate    `json:"item"`
}

func (h *StockInHandler) UpdateInvoiceItem(c *gin.Context) {
	var req updateInvoiceItemRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.service.UpdateInvoiceAndItem(c.Request.Context(), c.Param("id"), c.Param("itemId"), req.Invoice, req.Item)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Invoice and item updated successfully", result)
}

func (h *StockInHandler) DeleteItem(c *gin.Context) {
	if err := h.service.DeleteItem(c.Request.Context(), c.Param("id"), c.Param("itemId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

func (h *StockInHandler) ListItems(c *gin.Context) {
	page, err := h.service.ListItems(c.Request.Context(), parseListParams(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Stock in items retrieved successfully", page)
}

func (h *StockInHandler) GetItem(c *gin.Context) {
	item, err := h.service.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Stock in item retrieved successfully", item)
}

func (h *StockInHandler) Total(c *gin.Context) {
	total, err := h.service.TotalQuantity(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Get stock in total successfully", total)
}

type StockOutHandler struct {
	service *service.StockOutService
}

func NewStockOutHandler(service *service.StockOutService) *StockOutHandler {
	return &StockOutHandler{service: service}
}

type createStockOutRequest struct {
	ProductID string `json:"product_id"`
	Quantity  *int   `json:"quantity"`
}

func (h *StockOutHandler) Create(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		respondError(c, domain.Unauthorized("Access denied: Missing or invalid Authorization header"))
		return
	}

	var req createStockOutRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Quantity == nil {
		badRequest(c, "quantity is required")
		return
	}

	stockOut, err := h.service.CreateStockOut(c.Request.Context(), principal, req.ProductID, *req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Stock out created successfully", stockOut)
}

func (h *StockOutHandler) List(c *gin.Context) {
	page, err := h.service.List(c.Request.Context(), parseListParams(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Stock out retrieved successfully", page)
}

func (h *StockOutHandler) Total(c *gin.Context) {
	total, err := h.service.Count(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Get stock out total successfully", total)
}

type StockSummaryHandler struct {
	service *service.StockSummaryService
}

func NewStockSummaryHandler(service *service.StockSummaryService) *StockSummaryHandler {
	return &StockSummaryHandler{service: service}
}

func (h *StockSummaryHandler) Summary(c *gin.Context) {
	page, err := h.service.GetStockSummary(c.Request.Context(), parseListParams(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Stock summary retrieved successfully", page)
}
