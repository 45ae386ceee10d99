package handler

import (
	"fmt"
	"net/http"

	"github.com/siddronomomos/farmacia/internal/apierror"
	"github.com/siddronomomos/farmacia/internal/dto"
	"github.com/siddronomomos/farmacia/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

func bindPeriod(c *gin.Context) (dto.ReportPeriod, bool) {
	var period dto.ReportPeriod
	if err := c.ShouldBindQuery(&period); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return period, false
	}
	if period.From == "" || period.To == "" {
		c.JSON(http.StatusBadRequest, apierror.New("from and to query parameters are required"))
		return period, false
	}
	return period, true
}

// Sales godoc
// @Summary      Sales report for a period
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from query string true "From date YYYY-MM-DD"
// @Param        to   query string true "To date YYYY-MM-DD"
// @Success      200  {array} dto.SalesReportRow
// @Router       /v1/reports/sales [get]
func (h *ReportsHandler) Sales(c *gin.Context) {
	period, ok := bindPeriod(c)
	if !ok {
		return
	}
	resp, err := h.svc.Sales(c.Request.Context(), period)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Purchases godoc
// @Summary      Purchases report for a period
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from query string true "From date YYYY-MM-DD"
// @Param        to   query string true "To date YYYY-MM-DD"
// @Success      200  {array} dto.PurchasesReportRow
// @Router       /v1/reports/purchases [get]
func (h *ReportsHandler) Purchases(c *gin.Context) {
	period, ok := bindPeriod(c)
	if !ok {
		return
	}
	resp, err := h.svc.Purchases(c.Request.Context(), period)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TopArticles godoc
// @Summary      Best-selling articles for a period
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from query string true "From date YYYY-MM-DD"
// @Param        to   query string true "To date YYYY-MM-DD"
// @Success      200  {array} dto.TopArticleRow
// @Router       /v1/reports/top-articles [get]
func (h *ReportsHandler) TopArticles(c *gin.Context) {
	period, ok := bindPeriod(c)
	if !ok {
		return
	}
	resp, err := h.svc.TopArticles(c.Request.Context(), period)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TopCustomers godoc
// @Summary      Highest-spending customers for a period
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from query string true "From date YYYY-MM-DD"
// @Param        to   query string true "To date YYYY-MM-DD"
// @Success      200  {array} dto.TopCustomerRow
// @Router       /v1/reports/top-customers [get]
func (h *ReportsHandler) TopCustomers(c *gin.Context) {
	period, ok := bindPeriod(c)
	if !ok {
		return
	}
	resp, err := h.svc.TopCustomers(c.Request.Context(), period)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LowStock godoc
// @Summary      Links at or below the low-stock threshold
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.LowStockRow
// @Router       /v1/reports/low-stock [get]
func (h *ReportsHandler) LowStock(c *gin.Context) {
	resp, err := h.svc.LowStock(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportSales godoc
// @Summary      Export the sales report as CSV
// @Tags         reports
// @Produce      text/csv
// @Security     BearerAuth
// @Param        from query string true "From date YYYY-MM-DD"
// @Param        to   query string true "To date YYYY-MM-DD"
// @Success      200 {string} string "CSV body"
// @Router       /v1/reports/sales/export [get]
func (h *ReportsHandler) ExportSales(c *gin.Context) {
	period, ok := bindPeriod(c)
	if !ok {
		return
	}
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=sales_%s_%s.csv", period.From, period.To))
	if err := h.svc.ExportSalesCSV(c.Request.Context(), period, c.Writer); err != nil {
		writeError(c, err)
		return
	}
}

// ExportPurchases godoc
// @Summary      Export the purchases report as CSV
// @Tags         reports
// @Produce      text/csv
// @Security     BearerAuth
// @Param        from query string true "From date YYYY-MM-DD"
// @Param        to   query string true "To date YYYY-MM-DD"
// @Success      200 {string} string "CSV body"
// @Router       /v1/reports/purchases/export [get]
func (h *ReportsHandler) ExportPurchases(c *gin.Context) {
	period, ok := bindPeriod(c)
	if !ok {
		return
	}
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=purchases_%s_%s.csv", period.From, period.To))
	if err := h.svc.ExportPurchasesCSV(c.Request.Context(), period, c.Writer); err != nil {
		writeError(c, err)
		return
	}
}
