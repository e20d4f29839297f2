package handler

import (
	"github.com/gofiber/fiber/v2"

	"designator/internal/service"
)

// Services groups the use cases served over HTTP.
type Services struct {
	Products  service.ProductService
	Documents service.DocumentService
	DocTypes  service.DocTypeService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers only translate between HTTP and the services.
func RegisterRoutes(app *fiber.App, db Pinger, svc Services) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")

	products := api.Group("/products")
	products.Post("/", RegisterProduct(svc.Products))
	products.Get("/", ListProducts(svc.Products))
	products.Get("/:id", GetProduct(svc.Products))
	products.Put("/:id/comment", UpdateProductComment(svc.Products))
	products.Put("/:id/external-task", AttachExternalTask(svc.Products))
	products.Delete("/:id", DeleteProduct(svc.Products))

	documents := api.Group("/documents")
	documents.Post("/", AssignDocument(svc.Documents))
	documents.Get("/", ListDocuments(svc.Documents))
	documents.Get("/:id", GetDocument(svc.Documents))
	documents.Put("/:id/comment", UpdateDocumentComment(svc.Documents))
	documents.Delete("/:id", DeleteDocument(svc.Documents))

	types := api.Group("/custom-gost34-types")
	types.Post("/", CreateDocType(svc.DocTypes))
	types.Get("/", ListDocTypes(svc.DocTypes))
	types.Get("/:id", GetDocType(svc.DocTypes))
	types.Put("/:id", RenameDocType(svc.DocTypes))
	types.Delete("/:id", DeleteDocType(svc.DocTypes))

	api.Get("/catalog/:standard/doc-types", ListCatalog(svc.DocTypes))
}
