package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesikahq/gestion-salud/internal/directive"
	"github.com/mesikahq/gestion-salud/internal/donation"
	"github.com/mesikahq/gestion-salud/internal/encounter"
)

// Advance directives

func (h *Handler) SubscribeDirective(c *gin.Context) {
	var d directive.Directive
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.directiveService.Subscribe(c.Request.Context(), &d); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *Handler) GetDirective(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	d, err := h.directiveService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) AmendDirective(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	d, err := h.directiveService.Amend(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) RevokeDirective(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	d, err := h.directiveService.Revoke(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) DeleteDirective(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.directiveService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) ListPatientDirectives(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	directives, err := h.directiveService.ListByPatient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"directives": directives})
}

// Donation oppositions

func (h *Handler) DeclareOpposition(c *gin.Context) {
	var o donation.Opposition
	if err := c.ShouldBindJSON(&o); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.donationService.Declare(c.Request.Context(), &o); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *Handler) GetOpposition(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	o, err := h.donationService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *Handler) UpdateOpposition(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var o donation.Opposition
	if err := c.ShouldBindJSON(&o); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	o.ID = id
	if err := h.donationService.Update(c.Request.Context(), &o); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *Handler) DeleteOpposition(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.donationService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) ListPatientOppositions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	oppositions, err := h.donationService.ListByPatient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"oppositions": oppositions})
}

func (h *Handler) AttachOppositionDocument(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	filename, data, ok := readDocument(c)
	if !ok {
		return
	}
	ref, err := h.donationService.AttachDocument(c.Request.Context(), id, filename, data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"document_ref": ref})
}

func (h *Handler) GetOppositionDocument(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	data, filename, err := h.donationService.Document(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/octet-stream", data)
}

func (h *Handler) DetachOppositionDocument(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.donationService.DetachDocument(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Clinical encounters

func (h *Handler) ListEncounters(c *gin.Context) {
	limit, offset := pagination(c)
	var f encounter.Filter
	if v := c.Query("patient_id"); v != "" {
		if id, err := parseID(v); err == nil {
			f.PatientID = id
		}
	}
	if v := c.Query("provider_id"); v != "" {
		if id, err := parseID(v); err == nil {
			f.ProviderID = id
		}
	}
	f.Status = c.Query("status")

	encounters, total, err := h.encounterService.List(c.Request.Context(), f, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"encounters": encounters, "total": total})
}

func (h *Handler) ScheduleEncounter(c *gin.Context) {
	var e encounter.Encounter
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.encounterService.Schedule(c.Request.Context(), &e); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *Handler) GetEncounter(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	e, err := h.encounterService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) UpdateEncounter(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var e encounter.Encounter
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	e.ID = id
	if err := h.encounterService.Update(c.Request.Context(), &e); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) DeleteEncounter(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.encounterService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) AttendEncounter(c *gin.Context) {
	h.encounterTransition(c, h.encounterService.MarkAttended)
}

func (h *Handler) CancelEncounter(c *gin.Context) {
	h.encounterTransition(c, h.encounterService.Cancel)
}

func (h *Handler) MarkEncounterNoShow(c *gin.Context) {
	h.encounterTransition(c, h.encounterService.MarkNoShow)
}

type DischargeRequest struct {
	Diagnosis string `json:"diagnosis" binding:"required"`
}

func (h *Handler) DischargeEncounter(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req DischargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	e, err := h.encounterService.Discharge(c.Request.Context(), id, req.Diagnosis)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) encounterTransition(c *gin.Context, fn func(ctx context.Context, id int64) (*encounter.Encounter, error)) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	e, err := fn(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}
