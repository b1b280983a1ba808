package handlers

import (
	"log"
	"net/http"

	"catalog/internal/web"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
)

// DashboardHandler serves the embedded single-page dashboard.
type DashboardHandler struct{}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// RegisterRoutes mounts the dashboard page at / and its assets under /static.
func (h *DashboardHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/", h.HandleIndex)
	app.Use("/static", filesystem.New(filesystem.Config{
		Root:       http.FS(web.Assets),
		PathPrefix: "static",
	}))
}

// HandleIndex serves the dashboard page.
func (h *DashboardHandler) HandleIndex(c *fiber.Ctx) error {
	page, err := web.Assets.ReadFile("static/index.html")
	if err != nil {
		log.Printf("Error reading dashboard page: %v", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(page)
}
