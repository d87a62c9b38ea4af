package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturacion-api/internal/application/analytics"
)

// ReportHandler reportes agregados de ventas.
type ReportHandler struct {
	uc *analytics.AnalyticsUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *analytics.AnalyticsUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// SalesByProduct godoc
// @Summary      Ventas por producto en un año
// @Description  Excluye facturas anuladas. Ordenado por monto descendente.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        year  query  int  false  "Año (default: año actual)"
// @Success      200  {array}  dto.ProductSalesDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/sales-by-product [get]
func (h *ReportHandler) SalesByProduct(c *fiber.Ctx) error {
	year := c.QueryInt("year", time.Now().UTC().Year())
	out, err := h.uc.SalesByProduct(c.UserContext(), year)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
