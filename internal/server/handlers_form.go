package server

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

type pageData struct {
	Text    string
	Clicks  int
	Outputs []string
	Names   []string
}

// handleIndex renders the form. Once the button has been clicked at least
// once (clicks > 0) a re-render with text recomputes the outputs.
func (s *Server) handleIndex(c echo.Context) error {
	text := c.QueryParam("text")
	clicks := parseClicks(c.QueryParam("clicks"))

	return s.renderPage(c, text, clicks)
}

// handleAnalyzeForm is the analyze button. Each press bumps the click count
// carried in the form.
func (s *Server) handleAnalyzeForm(c echo.Context) error {
	text := c.FormValue("text")
	clicks := parseClicks(c.FormValue("clicks"))
	if c.FormValue("analyze") != "" {
		clicks++
	}

	return s.renderPage(c, text, clicks)
}

func (s *Server) renderPage(c echo.Context, text string, clicks int) error {
	out := s.analyze(text, clicks)

	return s.renderTemplate(c, "index.html", pageData{
		Text:    text,
		Clicks:  clicks,
		Outputs: out.Outputs(),
		Names:   s.analyzer.ClassifierNames(),
	})
}

func parseClicks(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
