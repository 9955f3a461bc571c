package api

import (
	"errors"
	"net/http"

	"pulsefit/coach-app/internal/template"

	"github.com/gin-gonic/gin"
)

// TemplateHandler serves the questionnaire definitions the client renders.
type TemplateHandler struct {
	registry *template.Registry
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(registry *template.Registry) *TemplateHandler {
	return &TemplateHandler{registry: registry}
}

// ListTemplates returns every active questionnaire definition.
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.List())
}

// GetTemplate returns one questionnaire definition by id. Clients pin the
// version field of the template they render and send it back with answers.
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	tpl, err := h.registry.Get(c.Param("templateId"))
	if err != nil {
		if errors.Is(err, template.ErrTemplateNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load template")
		}
		return
	}
	c.JSON(http.StatusOK, tpl)
}
