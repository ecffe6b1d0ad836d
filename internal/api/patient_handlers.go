package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesikahq/gestion-salud/internal/patient"
	"github.com/mesikahq/gestion-salud/internal/provider"
)

// Providers

func (h *Handler) ListProviders(c *gin.Context) {
	limit, offset := pagination(c)
	providers, total, err := h.providerService.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": providers, "total": total})
}

func (h *Handler) RegisterProvider(c *gin.Context) {
	var p provider.Provider
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.providerService.Create(c.Request.Context(), &p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetProvider(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.providerService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdateProvider(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var p provider.Provider
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p.ID = id
	if err := h.providerService.Update(c.Request.Context(), &p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) DeleteProvider(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.providerService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Patients

func (h *Handler) ListPatients(c *gin.Context) {
	limit, offset := pagination(c)
	f := patient.Filter{
		NameQuery:      c.Query("q"),
		DocumentNumber: c.Query("document"),
	}
	patients, total, err := h.patientService.List(c.Request.Context(), f, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patients": patients, "total": total})
}

func (h *Handler) RegisterPatient(c *gin.Context) {
	var p patient.Patient
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.patientService.Register(c.Request.Context(), &p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.patientService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) GetPatientByDocument(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "document number is required"})
		return
	}
	p, err := h.patientService.GetByDocument(c.Request.Context(), number)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var p patient.Patient
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p.ID = id
	if err := h.patientService.Update(c.Request.Context(), &p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePatient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.patientService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Patient nationalities

type AddNationalityRequest struct {
	CountryID int64 `json:"country_id" binding:"required"`
}

func (h *Handler) ListPatientNationalities(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	nationalities, err := h.patientService.ListNationalities(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nationalities": nationalities})
}

func (h *Handler) AddPatientNationality(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req AddNationalityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := h.patientService.AddNationality(c.Request.Context(), id, req.CountryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (h *Handler) RemovePatientNationality(c *gin.Context) {
	nid, ok := pathID(c, "nationality_id")
	if !ok {
		return
	}
	if err := h.patientService.RemoveNationality(c.Request.Context(), nid); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Patient disabilities

type AddDisabilityRequest struct {
	DisabilityID int64 `json:"disability_id" binding:"required"`
}

func (h *Handler) ListPatientDisabilities(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	disabilities, err := h.patientService.ListDisabilities(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"disabilities": disabilities})
}

func (h *Handler) AddPatientDisability(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req AddDisabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, err := h.patientService.AddDisability(c.Request.Context(), id, req.DisabilityID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *Handler) RemovePatientDisability(c *gin.Context) {
	did, ok := pathID(c, "link_id")
	if !ok {
		return
	}
	if err := h.patientService.RemoveDisability(c.Request.Context(), did); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
