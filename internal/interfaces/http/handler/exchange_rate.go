package handler

import (
	appexchange "github.com/erpsuite/finance/internal/application/exchange"
	"github.com/gin-gonic/gin"
)

// ExchangeRateHandler serves the current exchange rate
type ExchangeRateHandler struct {
	BaseHandler
	rateService       *appexchange.RateService
	baseCurrency      string
	secondaryCurrency string
}

// NewExchangeRateHandler creates a new ExchangeRateHandler. base and
// secondary are the default pair when the caller omits query params.
func NewExchangeRateHandler(rateService *appexchange.RateService, base, secondary string) *ExchangeRateHandler {
	if base == "" {
		base = "USD"
	}
	if secondary == "" {
		secondary = "VES"
	}
	return &ExchangeRateHandler{
		rateService:       rateService,
		baseCurrency:      base,
		secondaryCurrency: secondary,
	}
}

// RegisterRoutes registers exchange rate routes
func (h *ExchangeRateHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/exchange-rates/current", h.Current)
}

// Current returns the most recent rate for the pair, 404 when no rate
// has been recorded yet
func (h *ExchangeRateHandler) Current(c *gin.Context) {
	base := c.DefaultQuery("base", h.baseCurrency)
	secondary := c.DefaultQuery("secondary", h.secondaryCurrency)

	rate, err := h.rateService.Current(c.Request.Context(), base, secondary)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rate)
}
