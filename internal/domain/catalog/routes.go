package catalog

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the catalog API. importGuard runs in front of the
// catalog import, typically JWT auth plus an admin role check.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, importGuard ...gin.HandlerFunc) {
	companies := r.Group("/companies")
	{
		companies.GET("", h.GetCompanies)             // GET /api/v1/companies
		companies.GET("/:name/catalog", h.GetCatalog) // GET /api/v1/companies/:name/catalog
	}

	imports := r.Group("/catalogs", importGuard...)
	imports.POST("", h.ImportCatalog) // POST /api/v1/catalogs (raw catalog document)
}
