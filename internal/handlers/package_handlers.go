package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ispdesk_echo/internal/models"
)

type PackageHandler struct {
	db *gorm.DB
}

func NewPackageHandler(db *gorm.DB) *PackageHandler {
	return &PackageHandler{db: db}
}

// PackageRequest is the create/update body for a package
type PackageRequest struct {
	Name      string          `json:"name"`
	SpeedMbps int             `json:"speed_mbps"`
	Price     decimal.Decimal `json:"price"`
}

func (h *PackageHandler) ListPackages(c echo.Context) error {
	var packages []models.Package
	if err := h.db.Find(&packages).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch packages")
	}
	return c.JSON(http.StatusOK, packages)
}

func (h *PackageHandler) CreatePackage(c echo.Context) error {
	var req PackageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if req.Price.IsNegative() {
		return echo.NewHTTPError(http.StatusBadRequest, "price must not be negative")
	}

	pkg := models.Package{
		Name:      req.Name,
		SpeedMbps: req.SpeedMbps,
		Price:     req.Price,
	}
	if err := h.db.Create(&pkg).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create package")
	}
	return c.JSON(http.StatusCreated, pkg)
}

// UpdatePackage edits the catalog entry. Prices already locked into cycles
// are unaffected; only future cycle creations see the new price.
func (h *PackageHandler) UpdatePackage(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var pkg models.Package
	if err := h.db.First(&pkg, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Package not found")
	}

	var req PackageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Price.IsNegative() {
		return echo.NewHTTPError(http.StatusBadRequest, "price must not be negative")
	}

	pkg.Name = req.Name
	pkg.SpeedMbps = req.SpeedMbps
	pkg.Price = req.Price
	if err := h.db.Save(&pkg).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update package")
	}
	return c.JSON(http.StatusOK, pkg)
}

func (h *PackageHandler) DeletePackage(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var count int64
	if err := h.db.Model(&models.Customer{}).Where("package_id = ?", id).Count(&count).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to check package usage")
	}
	if count > 0 {
		return echo.NewHTTPError(http.StatusConflict, "Package is assigned to customers")
	}

	if err := h.db.Delete(&models.Package{}, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete package")
	}
	return c.NoContent(http.StatusNoContent)
}
