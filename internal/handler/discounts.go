package handler

import (
	"net/http"
	"strconv"

	"github.com/siddronomomos/farmacia/internal/apierror"
	"github.com/siddronomomos/farmacia/internal/dto"
	"github.com/siddronomomos/farmacia/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DiscountsHandler struct{ svc service.DiscountService }

func NewDiscountsHandler(svc service.DiscountService) *DiscountsHandler {
	return &DiscountsHandler{svc: svc}
}

// Create godoc
// @Summary      Create a discount tier
// @Description  min_points must be below max_points; bands may not produce negative percentages.
// @Tags         discounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.SaveTierRequest true "Tier data"
// @Success      201  {object} dto.TierResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/discount-tiers [post]
func (h *DiscountsHandler) Create(c *gin.Context) {
	var req dto.SaveTierRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List discount tiers
// @Tags         discounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.TierResponse
// @Router       /v1/discount-tiers [get]
func (h *DiscountsHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eligible godoc
// @Summary      List tiers eligible for a point balance
// @Description  Feeds the manual tier pick at the counter: best percentage first. Empty array = no discount applies.
// @Tags         discounts
// @Produce      json
// @Security     BearerAuth
// @Param        points query int true "Customer point balance"
// @Success      200  {array} dto.TierResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/discount-tiers/eligible [get]
func (h *DiscountsHandler) Eligible(c *gin.Context) {
	points, err := strconv.Atoi(c.Query("points"))
	if err != nil || points < 0 {
		c.JSON(http.StatusBadRequest, apierror.New("invalid points"))
		return
	}
	tiers, err := h.svc.EligibleTiers(c.Request.Context(), points)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]dto.TierResponse, 0, len(tiers))
	for i := range tiers {
		resp = append(resp, dto.TierResponse{
			ID:         tiers[i].ID.String(),
			MinPoints:  tiers[i].MinPoints,
			MaxPoints:  tiers[i].MaxPoints,
			Percentage: tiers[i].Percentage,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update a discount tier
// @Tags         discounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string              true "Tier UUID"
// @Param        body body dto.SaveTierRequest true "Tier data"
// @Success      200  {object} dto.TierResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/discount-tiers/{id} [put]
func (h *DiscountsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.SaveTierRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Delete a discount tier
// @Description  Refused with 409 when the tier was applied to persisted sales.
// @Tags         discounts
// @Security     BearerAuth
// @Param        id path string true "Tier UUID"
// @Success      204
// @Failure      409  {object} apierror.APIError
// @Router       /v1/discount-tiers/{id} [delete]
func (h *DiscountsHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
