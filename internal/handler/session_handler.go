package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/billscan/internal/metrics"
	"github.com/mmynk/billscan/internal/middleware"
	"github.com/mmynk/billscan/internal/service"
	"github.com/mmynk/billscan/internal/storage"
	"github.com/mmynk/billscan/internal/upi"
)

// SessionHandler serves the session workflow: create from receipt text,
// manage people and item ownership, compute splits, build payment links.
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type createSessionRequest struct {
	Text string `json:"text" binding:"required"`
}

type addPersonRequest struct {
	Name string `json:"name" binding:"required"`
	VPA  string `json:"vpa"`
}

type setOwnersRequest struct {
	Owners  []string `json:"owners"`
	Include *bool    `json:"include"`
}

type splitRequest struct {
	ParticipantIDs []string `json:"participant_ids"`
}

// Create handles POST /api/v1/sessions.
func (h *SessionHandler) Create(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessions.CreateSession(c.Request.Context(), middleware.GetUserID(c), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// Get handles GET /api/v1/sessions/:id.
func (h *SessionHandler) Get(c *gin.Context) {
	session, err := h.sessions.GetSession(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// AddPerson handles POST /api/v1/sessions/:id/people.
func (h *SessionHandler) AddPerson(c *gin.Context) {
	var req addPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	person, err := h.sessions.AddPerson(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req.Name, req.VPA)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, person)
}

// RemovePerson handles DELETE /api/v1/sessions/:id/people/:personId.
func (h *SessionHandler) RemovePerson(c *gin.Context) {
	err := h.sessions.RemovePerson(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), c.Param("personId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetItemOwners handles PUT /api/v1/sessions/:id/items/:itemId.
func (h *SessionHandler) SetItemOwners(c *gin.Context) {
	var req setOwnersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	include := true
	if req.Include != nil {
		include = *req.Include
	}

	session, err := h.sessions.SetItemOwners(c.Request.Context(), middleware.GetUserID(c),
		c.Param("id"), c.Param("itemId"), req.Owners, include)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Split handles POST /api/v1/sessions/:id/split.
func (h *SessionHandler) Split(c *gin.Context) {
	var req splitRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	result, err := h.sessions.ComputeSplit(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req.ParticipantIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PaymentLink handles GET /api/v1/sessions/:id/pay/:personId.
func (h *SessionHandler) PaymentLink(c *gin.Context) {
	link, err := h.sessions.BuildPaymentLink(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), c.Param("personId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

// PaymentQR handles GET /api/v1/sessions/:id/pay/:personId/qr and
// responds with a PNG image of the deep link.
func (h *SessionHandler) PaymentQR(c *gin.Context) {
	link, err := h.sessions.BuildPaymentLink(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), c.Param("personId"))
	if err != nil {
		writeError(c, err)
		return
	}

	png, err := upi.QRCodePNG(link.Link, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	metrics.PaymentLinks.WithLabelValues("qr").Inc()
	c.Data(http.StatusOK, "image/png", png)
}

// writeError maps service errors onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrNotParticipant):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmptyText),
		errors.Is(err, service.ErrNoParticipants),
		errors.Is(err, service.ErrMissingVPA):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
