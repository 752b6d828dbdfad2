package catalog

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"weddinghall/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetCompanies lists stored companies.
// @Summary List wedding companies
// @Tags Catalog
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/companies [get]
func (h *Handler) GetCompanies(c *gin.Context) {
	companies, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to list companies")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"companies": companies})
}

// GetCatalog returns the merged catalog of a company.
// @Summary Get company catalog
// @Tags Catalog
// @Produce json
// @Param name path string true "Company name"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/companies/{name}/catalog [get]
func (h *Handler) GetCatalog(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	cat, err := h.service.Snapshot(c.Request.Context(), name)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, NewCatalogResponse(cat))
}

// ImportCatalog replaces a company's catalog with the posted raw document.
// @Summary Import raw catalog
// @Tags Catalog
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /api/v1/catalogs [post]
func (h *Handler) ImportCatalog(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil || len(payload) == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidRequest, "Request body is required")
		return
	}

	cat, err := h.service.Import(c.Request.Context(), payload)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, NewCatalogResponse(cat))
}

func writeError(c *gin.Context, err error) {
	var mce *MalformedCatalogError
	switch {
	case errors.As(err, &mce):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, response.CodeMalformedCatalog, mce.Error(), gin.H{
			"path":   mce.Path,
			"reason": mce.Reason,
		})
	case errors.Is(err, ErrCompanyNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Company not found")
	case errors.Is(err, ErrDuplicateCompany):
		response.Error(c, http.StatusConflict, response.CodeDuplicate, err.Error())
	default:
		log.Printf("catalog handler error path=%s err=%v", c.Request.URL.Path, err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Internal server error")
	}
}
