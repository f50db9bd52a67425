package handler

import (
	"database/sql"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docvault/internal/http/middleware"
	"docvault/internal/service"
)

// Services groups the application services the HTTP layer dispatches to.
type Services struct {
	Documents    service.DocumentService
	AccessLinks  service.AccessLinkService
	Audit        service.AuditService
	Verification service.VerificationService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers stay
// thin; authorization decisions beyond token validation live in the services.
func RegisterRoutes(app *fiber.App, db *sql.DB, jwtSecret string, svcs Services) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(
		prometheus.DefaultGatherer,
		promhttp.HandlerOpts{},
	)))

	// Anonymous surface: token redemption and the enumeration-safe reset request.
	app.Get("/access/:token", AccessByToken(svcs.AccessLinks, svcs.Documents))
	app.Post("/auth/password-reset", RequestPasswordReset(svcs.Verification))

	// Everything below requires a valid bearer token.
	auth := middleware.RequireAuth(jwtSecret)

	docs := app.Group("/documents", auth)
	docs.Post("/", UploadDocument(svcs.Documents))
	docs.Get("/", ListDocuments(svcs.Documents))
	docs.Get("/:id", GetDocument(svcs.Documents))
	docs.Patch("/:id", UpdateDocument(svcs.Documents))
	docs.Delete("/:id", DeleteDocument(svcs.Documents))
	docs.Get("/:id/download", DownloadDocument(svcs.Documents))
	docs.Get("/:id/links", ListDocumentLinks(svcs.AccessLinks))
	docs.Get("/:id/audit-logs", ListDocumentAudit(svcs.Audit))

	links := app.Group("/access-links", auth)
	links.Post("/", CreateAccessLink(svcs.AccessLinks))
	links.Get("/", ListAccessLinks(svcs.AccessLinks))
	links.Get("/:id", GetAccessLink(svcs.AccessLinks))
	links.Delete("/:id", RevokeAccessLink(svcs.AccessLinks))

	app.Get("/audit-logs", auth, ListMyAudit(svcs.Audit))
}
