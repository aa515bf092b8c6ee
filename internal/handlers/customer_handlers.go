package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"ispdesk_echo/internal/ledger"
	"ispdesk_echo/internal/models"
)

type CustomerHandler struct {
	db     *gorm.DB
	ledger *ledger.Service
}

func NewCustomerHandler(db *gorm.DB, ledgerSvc *ledger.Service) *CustomerHandler {
	return &CustomerHandler{db: db, ledger: ledgerSvc}
}

// ListCustomers returns all customers decorated with their derived display
// status, optionally filtered by ?status=. Filtering goes through the same
// ComputeDisplayStatus as the dashboard counts, so the two can never drift.
func (h *CustomerHandler) ListCustomers(c echo.Context) error {
	var customers []models.Customer
	if err := h.db.Preload("Package").Find(&customers).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch customers")
	}

	statusFilter := c.QueryParam("status")

	summaries := make([]CustomerSummary, 0, len(customers))
	for _, customer := range customers {
		active, err := h.ledger.ActiveCycle(c.Request().Context(), customer.ID)
		if err != nil {
			return ledgerHTTPError(err)
		}

		display := ledger.ComputeDisplayStatus(customer.Status, active)
		if statusFilter != "" && string(display) != statusFilter {
			continue
		}

		summaries = append(summaries, CustomerSummary{
			Customer:      customer,
			DisplayStatus: display,
			ActiveCycle:   active,
			Facts:         ledger.Facts(active),
		})
	}

	return c.JSON(http.StatusOK, summaries)
}

// GetCustomer returns one customer with the derived billing view
func (h *CustomerHandler) GetCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var customer models.Customer
	if err := h.db.Preload("Package").First(&customer, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Customer not found")
	}

	active, err := h.ledger.ActiveCycle(c.Request().Context(), customer.ID)
	if err != nil {
		return ledgerHTTPError(err)
	}

	return c.JSON(http.StatusOK, CustomerSummary{
		Customer:      customer,
		DisplayStatus: ledger.ComputeDisplayStatus(customer.Status, active),
		ActiveCycle:   active,
		Facts:         ledger.Facts(active),
	})
}

// CreateCustomer registers a subscriber and opens their initial billing
// cycle with the package price locked in at signup
func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	var req CreateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	var pkg models.Package
	if err := h.db.First(&pkg, req.PackageID).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown package")
	}

	startDate, err := parseDateOrToday(req.StartDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	total := pkg.Price
	breakdown := map[string]interface{}{"package_price": pkg.Price.String()}
	if req.Discount != nil {
		total = total.Sub(*req.Discount)
		breakdown["discount"] = req.Discount.String()
	}
	if req.MaterialCharge != nil {
		total = total.Add(*req.MaterialCharge)
		breakdown["material_charge"] = req.MaterialCharge.String()
	}

	customer := models.Customer{
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
		PackageID: &pkg.ID,
		Status:    models.CustomerStatusActive,
	}
	if err := h.db.Create(&customer).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create customer")
	}

	cycle, err := h.ledger.CreateInitialCycle(c.Request().Context(), customer.ID, startDate, total)
	if err != nil {
		return ledgerHTTPError(err)
	}

	// Invoice detail is opaque metadata to the ledger.
	if cycle, err = h.ledger.PatchMetadata(c.Request().Context(), cycle.ID, ledger.CycleMetadata{Breakdown: breakdown}); err != nil {
		return ledgerHTTPError(err)
	}

	return c.JSON(http.StatusCreated, CustomerSummary{
		Customer:      customer,
		DisplayStatus: ledger.ComputeDisplayStatus(customer.Status, cycle),
		ActiveCycle:   cycle,
		Facts:         ledger.Facts(cycle),
	})
}

// UpdateCustomer patches identity fields and the manual account status
func (h *CustomerHandler) UpdateCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var customer models.Customer
	if err := h.db.First(&customer, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Customer not found")
	}

	var req UpdateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.Status != nil {
		if *req.Status != models.CustomerStatusActive && *req.Status != models.CustomerStatusSuspended {
			return echo.NewHTTPError(http.StatusBadRequest, "status must be active or suspended")
		}
		customer.Status = *req.Status
	}
	if req.PackageID != nil {
		var pkg models.Package
		if err := h.db.First(&pkg, *req.PackageID).Error; err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Unknown package")
		}
		customer.PackageID = req.PackageID
	}

	if err := h.db.Save(&customer).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update customer")
	}

	return c.JSON(http.StatusOK, customer)
}

// DeleteCustomer permanently removes a customer and cascades the delete to
// every billing cycle they own. This is the only path that deletes cycles.
func (h *CustomerHandler) DeleteCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var customer models.Customer
	if err := h.db.First(&customer, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Customer not found")
	}

	if err := h.ledger.DeleteCyclesForCustomer(c.Request().Context(), customer.ID); err != nil {
		return ledgerHTTPError(err)
	}
	if err := h.db.Unscoped().Delete(&customer).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete customer")
	}

	return c.NoContent(http.StatusNoContent)
}
