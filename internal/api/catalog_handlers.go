package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesikahq/gestion-salud/internal/catalog"
)

// kindParam resolves the :kind path segment to a known catalog.
func kindParam(c *gin.Context) (catalog.Kind, bool) {
	kind := catalog.Kind(c.Param("kind"))
	for _, k := range catalog.Kinds() {
		if k == kind {
			return kind, true
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "unknown catalog"})
	return "", false
}

func (h *Handler) ListCatalogKinds(c *gin.Context) {
	kinds := catalog.Kinds()
	names := make([]string, 0, len(kinds)+1)
	for _, k := range kinds {
		names = append(names, string(k))
	}
	names = append(names, "discapacidad")
	c.JSON(http.StatusOK, gin.H{"catalogs": names})
}

func (h *Handler) ListCatalogEntries(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	entries, err := h.catalogService.ListEntries(c.Request.Context(), kind)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *Handler) CreateCatalogEntry(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	var e catalog.Entry
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.catalogService.CreateEntry(c.Request.Context(), kind, &e); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *Handler) GetCatalogEntry(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	e, err := h.catalogService.GetEntry(c.Request.Context(), kind, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) UpdateCatalogEntry(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var e catalog.Entry
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	e.ID = id
	if err := h.catalogService.UpdateEntry(c.Request.Context(), kind, &e); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) DeleteCatalogEntry(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteEntry(c.Request.Context(), kind, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Disability types

func (h *Handler) ListDisabilityTypes(c *gin.Context) {
	types, err := h.catalogService.ListDisabilityTypes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"disability_types": types})
}

func (h *Handler) CreateDisabilityType(c *gin.Context) {
	var d catalog.DisabilityType
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.catalogService.CreateDisabilityType(c.Request.Context(), &d); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *Handler) GetDisabilityType(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	d, err := h.catalogService.GetDisabilityType(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) UpdateDisabilityType(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var d catalog.DisabilityType
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d.ID = id
	if err := h.catalogService.UpdateDisabilityType(c.Request.Context(), &d); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) DeleteDisabilityType(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteDisabilityType(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
