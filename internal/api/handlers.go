package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mesikahq/gestion-salud/internal/audit"
	"github.com/mesikahq/gestion-salud/internal/auth"
	"github.com/mesikahq/gestion-salud/internal/catalog"
	"github.com/mesikahq/gestion-salud/internal/directive"
	"github.com/mesikahq/gestion-salud/internal/donation"
	"github.com/mesikahq/gestion-salud/internal/encounter"
	"github.com/mesikahq/gestion-salud/internal/patient"
	"github.com/mesikahq/gestion-salud/internal/provider"
)

// maxDocumentSize caps uploaded supporting documents at 10 MiB.
const maxDocumentSize = 10 << 20

type Handler struct {
	authService      auth.Service
	catalogService   *catalog.Service
	providerService  *provider.Service
	patientService   *patient.Service
	directiveService *directive.Service
	donationService  *donation.Service
	encounterService *encounter.Service
	auditService     audit.Service
}

func NewHandler(
	authService auth.Service,
	catalogService *catalog.Service,
	providerService *provider.Service,
	patientService *patient.Service,
	directiveService *directive.Service,
	donationService *donation.Service,
	encounterService *encounter.Service,
	auditService audit.Service,
) *Handler {
	return &Handler{
		authService:      authService,
		catalogService:   catalogService,
		providerService:  providerService,
		patientService:   patientService,
		directiveService: directiveService,
		donationService:  donationService,
		encounterService: encounterService,
		auditService:     auditService,
	}
}

// respondError translates domain sentinels into HTTP status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, provider.ErrNotFound),
		errors.Is(err, patient.ErrNotFound),
		errors.Is(err, patient.ErrNationalityNotFound),
		errors.Is(err, patient.ErrDisabilityNotFound),
		errors.Is(err, directive.ErrNotFound),
		errors.Is(err, donation.ErrNotFound),
		errors.Is(err, donation.ErrNoDocument),
		errors.Is(err, encounter.ErrNotFound),
		errors.Is(err, auth.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, catalog.ErrInUse),
		errors.Is(err, provider.ErrInUse),
		errors.Is(err, patient.ErrDuplicateDocument),
		errors.Is(err, patient.ErrDuplicateNationality),
		errors.Is(err, patient.ErrDuplicateDisability),
		errors.Is(err, patient.ErrNationalityInUse),
		errors.Is(err, auth.ErrUserExists),
		errors.Is(err, directive.ErrBadTransition),
		errors.Is(err, encounter.ErrBadTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, catalog.ErrInvalid),
		errors.Is(err, catalog.ErrUnknownKind),
		errors.Is(err, provider.ErrInvalid),
		errors.Is(err, patient.ErrInvalid),
		errors.Is(err, patient.ErrInvalidReference),
		errors.Is(err, directive.ErrInvalid),
		errors.Is(err, directive.ErrInvalidReference),
		errors.Is(err, donation.ErrInvalid),
		errors.Is(err, donation.ErrPatientNotFound),
		errors.Is(err, encounter.ErrInvalid),
		errors.Is(err, encounter.ErrInvalidReference):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "25"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}

// Authentication

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

type RefreshRequest struct {
	Token string `json:"token" binding:"required"`
}

func (h *Handler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.authService.RefreshToken(c.Request.Context(), req.Token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

type RegisterUserRequest struct {
	Username string   `json:"username" binding:"required"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=8"`
	Roles    []string `json:"roles"`
}

func (h *Handler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password, req.Roles)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), auth.GetUserID(c), req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "password changed"})
}

func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.authService.GetUserByID(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) DeactivateUser(c *gin.Context) {
	if err := h.authService.DeactivateUser(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deactivated"})
}

// Audit trail

func (h *Handler) GetAuditLogs(c *gin.Context) {
	filters := map[string]interface{}{}
	if v := c.Query("user_id"); v != "" {
		filters["user_id"] = v
	}
	if v := c.Query("resource"); v != "" {
		filters["resource"] = v
	}
	if v := c.Query("event_type"); v != "" {
		filters["event_type"] = v
	}
	limit, offset := pagination(c)

	events, err := h.auditService.QueryEvents(c.Request.Context(), filters, offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query audit trail"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// Health

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func readDocument(c *gin.Context) (string, []byte, bool) {
	file, header, err := c.Request.FormFile("document")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "document file is required"})
		return "", nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxDocumentSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read document"})
		return "", nil, false
	}
	if len(data) > maxDocumentSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "document exceeds size limit"})
		return "", nil, false
	}
	return header.Filename, data, true
}
