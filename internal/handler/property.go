package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vacation-rental-booking/internal/config"
)

// PropertyHandler serves the static listing details of the single
// rental property. The payload changes only on redeploy, so the route
// is a good fit for the Redis response cache.
type PropertyHandler struct {
	cfg config.Config
}

func NewPropertyHandler(cfg config.Config) *PropertyHandler {
	return &PropertyHandler{cfg: cfg}
}

// Get handles GET /v1/property.
func (h *PropertyHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"name":               h.cfg.PropertyName,
		"summary":            h.cfg.PropertySummary,
		"max_party_size":     h.cfg.MaxPartySize,
		"nightly_rate_cents": h.cfg.NightlyRateCents,
		"currency":           h.cfg.Currency,
	})
}
