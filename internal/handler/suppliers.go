package handler

import (
	"net/http"

	"github.com/siddronomomos/farmacia/internal/apierror"
	"github.com/siddronomomos/farmacia/internal/dto"
	"github.com/siddronomomos/farmacia/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SuppliersHandler struct{ svc service.SupplierService }

func NewSuppliersHandler(svc service.SupplierService) *SuppliersHandler {
	return &SuppliersHandler{svc: svc}
}

// Create godoc
// @Summary      Register a supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.SaveSupplierRequest true "Supplier data"
// @Success      201  {object} dto.SupplierResponse
// @Router       /v1/suppliers [post]
func (h *SuppliersHandler) Create(c *gin.Context) {
	var req dto.SaveSupplierRequest
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
// @Summary      List suppliers
// @Tags         suppliers
// @Produce      json
// @Security     BearerAuth
// @Param        q query string false "Search term"
// @Success      200  {array} dto.SupplierResponse
// @Router       /v1/suppliers [get]
func (h *SuppliersHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get a supplier
// @Tags         suppliers
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Supplier UUID"
// @Success      200  {object} dto.SupplierResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/suppliers/{id} [get]
func (h *SuppliersHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update a supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "Supplier UUID"
// @Param        body body dto.SaveSupplierRequest true "Supplier data"
// @Success      200  {object} dto.SupplierResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/suppliers/{id} [put]
func (h *SuppliersHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.SaveSupplierRequest
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
// @Summary      Delete a supplier
// @Description  Refused with 409 when the supplier has linked articles or purchases.
// @Tags         suppliers
// @Security     BearerAuth
// @Param        id path string true "Supplier UUID"
// @Success      204
// @Failure      409  {object} apierror.APIError
// @Router       /v1/suppliers/{id} [delete]
func (h *SuppliersHandler) Delete(c *gin.Context) {
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

// Catalog godoc
// @Summary      List a supplier's article links
// @Tags         suppliers
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Supplier UUID"
// @Success      200  {array} dto.SupplierArticleResponse
// @Router       /v1/suppliers/{id}/articles [get]
func (h *SuppliersHandler) Catalog(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.Catalog(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LinkArticle godoc
// @Summary      Link an article to a supplier
// @Description  Creates the sourcing link or updates its purchase price.
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id         path string                 true "Supplier UUID"
// @Param        article_id path string                 true "Article UUID"
// @Param        body       body dto.LinkArticleRequest true "Purchase price"
// @Success      200  {object} dto.SupplierArticleResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/suppliers/{id}/articles/{article_id} [put]
func (h *SuppliersHandler) LinkArticle(c *gin.Context) {
	supplierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid supplier id"))
		return
	}
	articleID, err := uuid.Parse(c.Param("article_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid article id"))
		return
	}
	var req dto.LinkArticleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.LinkArticle(c.Request.Context(), supplierID, articleID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AdjustStock godoc
// @Summary      Adjust stock on a supplier-article link
// @Description  Applies a signed delta. Rejected with 409 when it would drive stock below zero.
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id         path string                 true "Supplier UUID"
// @Param        article_id path string                 true "Article UUID"
// @Param        body       body dto.AdjustStockRequest true "Signed delta"
// @Success      200  {object} dto.SupplierArticleResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/suppliers/{id}/articles/{article_id}/stock [patch]
func (h *SuppliersHandler) AdjustStock(c *gin.Context) {
	supplierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid supplier id"))
		return
	}
	articleID, err := uuid.Parse(c.Param("article_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid article id"))
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AdjustStock(c.Request.Context(), supplierID, articleID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
