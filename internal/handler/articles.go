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

type ArticlesHandler struct{ svc service.ArticleService }

func NewArticlesHandler(svc service.ArticleService) *ArticlesHandler {
	return &ArticlesHandler{svc: svc}
}

// Create godoc
// @Summary      Register an article
// @Tags         articles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.SaveArticleRequest true "Article data"
// @Success      201  {object} dto.ArticleResponse
// @Router       /v1/articles [post]
func (h *ArticlesHandler) Create(c *gin.Context) {
	var req dto.SaveArticleRequest
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
// @Summary      List articles
// @Tags         articles
// @Produce      json
// @Security     BearerAuth
// @Param        q query string false "Search term"
// @Success      200  {array} dto.ArticleResponse
// @Router       /v1/articles [get]
func (h *ArticlesHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get an article
// @Tags         articles
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Article UUID"
// @Success      200  {object} dto.ArticleResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/articles/{id} [get]
func (h *ArticlesHandler) Get(c *gin.Context) {
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
// @Summary      Update an article
// @Tags         articles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "Article UUID"
// @Param        body body dto.SaveArticleRequest true "Article data"
// @Success      200  {object} dto.ArticleResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/articles/{id} [put]
func (h *ArticlesHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.SaveArticleRequest
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
// @Summary      Delete an article
// @Description  Refused with 409 when the article has stock links or movement history.
// @Tags         articles
// @Security     BearerAuth
// @Param        id path string true "Article UUID"
// @Success      204
// @Failure      409  {object} apierror.APIError
// @Router       /v1/articles/{id} [delete]
func (h *ArticlesHandler) Delete(c *gin.Context) {
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

// PriceCheck godoc
// @Summary      Public price check
// @Description  Returns description, sale price and per-supplier availability. Cached briefly. No auth required.
// @Tags         articles
// @Produce      json
// @Param        id path string true "Article UUID"
// @Success      200  {object} dto.PriceCheckResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/articles/{id}/price [get]
func (h *ArticlesHandler) PriceCheck(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.PriceCheck(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movements godoc
// @Summary      List stock movements for an article
// @Tags         articles
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string true  "Article UUID"
// @Param        limit query int    false "Max rows (default 100)"
// @Success      200  {array} model.StockMovement
// @Router       /v1/articles/{id}/movements [get]
func (h *ArticlesHandler) Movements(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	resp, err := h.svc.Movements(c.Request.Context(), id, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
