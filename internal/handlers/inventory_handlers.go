package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ispdesk_echo/internal/models"
)

type InventoryHandler struct {
	db *gorm.DB
}

func NewInventoryHandler(db *gorm.DB) *InventoryHandler {
	return &InventoryHandler{db: db}
}

// InventoryItemRequest is the create/update body for an inventory item
type InventoryItemRequest struct {
	Name     string          `json:"name"`
	Unit     string          `json:"unit"`
	Quantity int             `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// AdjustQuantityRequest adds to or subtracts from an item's stock level
type AdjustQuantityRequest struct {
	Delta int `json:"delta"`
}

func (h *InventoryHandler) ListItems(c echo.Context) error {
	var items []models.InventoryItem
	if err := h.db.Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch inventory")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *InventoryHandler) CreateItem(c echo.Context) error {
	var req InventoryItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	item := models.InventoryItem{
		Name:     req.Name,
		Unit:     req.Unit,
		Quantity: req.Quantity,
		UnitCost: req.UnitCost,
	}
	if err := h.db.Create(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create item")
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *InventoryHandler) UpdateItem(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var item models.InventoryItem
	if err := h.db.First(&item, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Item not found")
	}

	var req InventoryItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	item.Name = req.Name
	item.Unit = req.Unit
	item.Quantity = req.Quantity
	item.UnitCost = req.UnitCost
	if err := h.db.Save(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update item")
	}
	return c.JSON(http.StatusOK, item)
}

// AdjustQuantity moves stock in or out, e.g. when material is used during
// an installation
func (h *InventoryHandler) AdjustQuantity(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var item models.InventoryItem
	if err := h.db.First(&item, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Item not found")
	}

	var req AdjustQuantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if item.Quantity+req.Delta < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "stock cannot go negative")
	}
	item.Quantity += req.Delta
	if err := h.db.Save(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to adjust quantity")
	}
	return c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) DeleteItem(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.db.Delete(&models.InventoryItem{}, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete item")
	}
	return c.NoContent(http.StatusNoContent)
}
