package server

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/spacesedan/sentidash/internal/models"
	"github.com/spacesedan/sentidash/internal/sentiment"
)

// handleAnalyzeAPI is the JSON form of the analyze button: every call counts
// as one trigger.
func (s *Server) handleAnalyzeAPI(c echo.Context) error {
	var req models.AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	out := s.analyze(req.Text, 1)

	resp := models.AnalyzeResponse{
		Outputs:     out.Outputs(),
		Predictions: out.Predictions,
	}
	if out.Err != nil {
		resp.Error = out.Err.Error()
	}
	if req.Text != "" {
		baseline := sentiment.AnalyzeWithVADER(req.Text)
		resp.Baseline = &baseline
	}

	if err := c.JSON(http.StatusOK, resp); err != nil {
		return fmt.Errorf("failed to send analyze response: %w", err)
	}
	return nil
}
