package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sensorcast/sensorcast/internal/models"
	"github.com/sensorcast/sensorcast/internal/scheduler"
)

// ListForecasters returns the status of every configured forecaster
func (h *Handler) ListForecasters(c *fiber.Ctx) error {
	runners := h.manager.List()

	out := make([]models.ForecasterResponse, 0, len(runners))
	for _, runner := range runners {
		out = append(out, h.forecasterStatus(c, runner))
	}

	return c.JSON(models.ForecasterListResponse{Forecasters: out})
}

// GetForecaster renders one forecaster as a sensor entity: the scalar
// state is the forecast value at the current hour, the full forecast
// rides in the attributes
func (h *Handler) GetForecaster(c *fiber.Ctx) error {
	runner, ok := h.manager.Get(c.Params("id"))
	if !ok {
		return h.forecasterNotFound(c)
	}

	resp := models.SensorResponse{
		EntityID: runner.ID(),
		Attributes: models.SensorAttributes{
			SourceEntity: runner.Engine().SourceEntity(),
			HistoryDays:  runner.Engine().HistoryDays(),
			Forecast:     []models.ForecastPointView{},
		},
	}

	if result := runner.LastResult(); result != nil {
		resp.Attributes.LastForecastUpdate = result.GeneratedAt.UTC().Format(time.RFC3339)
		resp.Attributes.Forecast = models.NewForecastPointViews(result.Forecast)
		resp.Attributes.Metrics = result.Metrics

		if point, ok := result.NearestTo(time.Now().UTC()); ok {
			value := point.Value
			resp.State = &value
		}
	}

	return c.JSON(resp)
}

// GetForecast returns a forecaster's current forecast
func (h *Handler) GetForecast(c *fiber.Ctx) error {
	runner, ok := h.manager.Get(c.Params("id"))
	if !ok {
		return h.forecasterNotFound(c)
	}

	result := runner.LastResult()
	if result == nil {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "NO_FORECAST",
				Message: "No forecast has been generated yet",
			},
		})
	}

	return c.JSON(models.NewForecastView(result))
}

// RefreshForecaster triggers an immediate update cycle for one
// forecaster and reports the outcome
func (h *Handler) RefreshForecaster(c *fiber.Ctx) error {
	runner, ok := h.manager.Get(c.Params("id"))
	if !ok {
		return h.forecasterNotFound(c)
	}

	resp := models.RefreshResponse{ID: runner.ID(), Refreshed: true}
	if err := runner.RunOnce(c.Context()); err != nil {
		resp.Refreshed = false
		resp.Error = err.Error()
	}

	return c.JSON(resp)
}

func (h *Handler) forecasterStatus(c *fiber.Ctx, runner *scheduler.Runner) models.ForecasterResponse {
	resp := models.ForecasterResponse{
		ID:           runner.ID(),
		Name:         runner.Name(),
		Type:         runner.Type(),
		SourceEntity: runner.Engine().SourceEntity(),
		Model:        runner.Model(),
		Available:    runner.Engine().Available(c.Context()),
	}

	if result := runner.LastResult(); result != nil {
		resp.Points = len(result.Forecast)
		resp.LastSuccess = result.GeneratedAt.UTC().Format(time.RFC3339)
	}
	if !runner.LastAttempt().IsZero() {
		resp.LastAttempt = runner.LastAttempt().UTC().Format(time.RFC3339)
	}
	if err := runner.LastError(); err != nil {
		resp.LastError = err.Error()
	}
	resp.FailureCount = runner.FailureCount()

	return resp
}

func (h *Handler) forecasterNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "FORECASTER_NOT_FOUND",
			Message: "Unknown forecaster ID",
			Path:    c.Path(),
		},
	})
}
