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

type PurchasesHandler struct{ svc service.PurchaseService }

func NewPurchasesHandler(svc service.PurchaseService) *PurchasesHandler {
	return &PurchasesHandler{svc: svc}
}

// Register godoc
// @Summary      Register a purchase
// @Description  Books a stock intake: creates supplier-article links on first purchase and increments stock per line, atomically.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.PurchaseRequest true "Purchase lines"
// @Success      201  {object} dto.PurchaseResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/purchases [post]
func (h *PurchasesHandler) Register(c *gin.Context) {
	var req dto.PurchaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Register(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List purchases
// @Tags         purchases
// @Produce      json
// @Security     BearerAuth
// @Param        from  query string false "From date YYYY-MM-DD"
// @Param        to    query string false "To date YYYY-MM-DD"
// @Param        page  query int    false "Page (default 1)"
// @Param        limit query int    false "Rows per page (default 50)"
// @Success      200  {object} dto.PurchaseListResponse
// @Router       /v1/purchases [get]
func (h *PurchasesHandler) List(c *gin.Context) {
	var filter dto.PurchaseFilter
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
// @Summary      Get a purchase by folio
// @Tags         purchases
// @Produce      json
// @Security     BearerAuth
// @Param        folio path int true "Purchase folio"
// @Success      200  {object} dto.PurchaseResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/purchases/{folio} [get]
func (h *PurchasesHandler) Get(c *gin.Context) {
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
// @Summary      Cancel a purchase
// @Description  Removes the purchase and backs the received stock out. Refused with 409 when units were already sold.
// @Tags         purchases
// @Security     BearerAuth
// @Param        folio path int true "Purchase folio"
// @Success      204
// @Failure      409  {object} apierror.APIError
// @Router       /v1/purchases/{folio} [delete]
func (h *PurchasesHandler) Cancel(c *gin.Context) {
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
