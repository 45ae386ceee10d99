package handler

import (
	"net/http"
	"strconv"

	"github.com/siddronomomos/farmacia/internal/apierror"
	"github.com/siddronomomos/farmacia/internal/dto"
	"github.com/siddronomomos/farmacia/internal/middleware"
	"github.com/siddronomomos/farmacia/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler { return &SalesHandler{svc: svc} }

// Checkout godoc
// @Summary      Register a sale
// @Description  Runs the full checkout: stock ceiling per line, discount resolution, tax on the discounted base, tender validation, ACID persistence with stock decrement and point accrual.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CheckoutRequest true "Cart, tender and discount selection"
// @Success      201  {object} dto.SaleResponse
// @Failure      409  {object} apierror.APIError "insufficient stock"
// @Failure      422  {object} apierror.APIError "insufficient payment or ineligible tier"
// @Router       /v1/sales [post]
func (h *SalesHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Checkout(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List sales
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        from  query string false "From date YYYY-MM-DD"
// @Param        to    query string false "To date YYYY-MM-DD"
// @Param        page  query int    false "Page (default 1)"
// @Param        limit query int    false "Rows per page (default 50)"
// @Success      200  {object} dto.SaleListResponse
// @Router       /v1/sales [get]
func (h *SalesHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get a sale by folio
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        folio path int true "Sale folio"
// @Success      200  {object} dto.SaleResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/sales/{folio} [get]
func (h *SalesHandler) Get(c *gin.Context) {
	folio, err := strconv.Atoi(c.Param("folio"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid folio"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), folio)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancel godoc
// @Summary      Cancel a sale
// @Description  Removes the sale lines and header. Whether stock is restored is a deployment configuration decision.
// @Tags         sales
// @Security     BearerAuth
// @Param        folio path int true "Sale folio"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Router       /v1/sales/{folio} [delete]
func (h *SalesHandler) Cancel(c *gin.Context) {
	folio, err := strconv.Atoi(c.Param("folio"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid folio"))
		return
	}
	if err := h.svc.Cancel(c.Request.Context(), folio); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
