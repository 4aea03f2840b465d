// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"fakturo/internal/domain/auth"
	"fakturo/internal/infrastructure/http/v1/middleware"
)

// CatalogRouteHandler defines the interface for catalog handlers.
// All catalog handlers must implement these methods.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	SetDeletionMark(c *gin.Context)
}

// DocumentRouteHandler defines the interface for document handlers.
// All document handlers must implement these methods.
type DocumentRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Transition(c *gin.Context)
	History(c *gin.Context)
}

// DocumentConvertHandler is an optional interface for documents that
// convert into another document type.
type DocumentConvertHandler interface {
	Convert(c *gin.Context)
}

// RegisterCatalogRoutes registers standard CRUD routes for a catalog.
// Reads are open to any authenticated user; writes require the back
// office role.
//
// Usage:
//
//	repo := catalog_repo.NewCurrencyRepo(txManager)
//	service := currency.NewService(repo, txManager)
//	handler := handlers.NewCurrencyHandler(baseHandler, service)
//	RegisterCatalogRoutes(catalogs.Group("/currencies"), handler)
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler) {
	write := middleware.RequireRole(auth.RoleBackOffice)

	group.GET("", handler.List)
	group.GET("/:id", handler.Get)
	group.POST("", write, handler.Create)
	group.PUT("/:id", write, handler.Update)
	group.DELETE("/:id", write, handler.Delete)
	group.POST("/:id/deletion-mark", write, handler.SetDeletionMark)
}

// RegisterDocumentRoutes registers standard CRUD + lifecycle routes for a
// document. Reads are open to any authenticated user; writes and
// lifecycle transitions require the company manager role. If the handler
// also implements DocumentConvertHandler, the convert route is registered
// automatically.
func RegisterDocumentRoutes(group *gin.RouterGroup, handler DocumentRouteHandler) {
	write := middleware.RequireRole(auth.RoleCompanyManager)

	group.GET("", handler.List)
	group.GET("/:id", handler.Get)
	group.GET("/:id/history", handler.History)
	group.POST("", write, handler.Create)
	group.PUT("/:id", write, handler.Update)
	group.DELETE("/:id", write, handler.Delete)
	group.POST("/:id/transition", write, handler.Transition)

	if convertHandler, ok := handler.(DocumentConvertHandler); ok {
		group.POST("/:id/convert", write, convertHandler.Convert)
	}
}
