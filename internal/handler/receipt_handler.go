package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/billscan/internal/service"
)

// ReceiptHandler serves stateless receipt parsing: raw text in,
// structured receipt out, nothing persisted.
type ReceiptHandler struct {
	sessions *service.SessionService
}

// NewReceiptHandler creates a new receipt handler.
func NewReceiptHandler(sessions *service.SessionService) *ReceiptHandler {
	return &ReceiptHandler{sessions: sessions}
}

type parseRequest struct {
	Text string `json:"text" binding:"required"`
}

// Parse handles POST /api/v1/receipts/parse.
func (h *ReceiptHandler) Parse(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	receipt, err := h.sessions.ParseText(req.Text)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// Scan handles POST /api/v1/receipts/scan: a multipart image upload is
// run through OCR and the extracted text through the parser.
func (h *ReceiptHandler) Scan(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	rawText, receipt, err := h.sessions.ExtractAndParse(fileHeader)
	if err != nil {
		if errors.Is(err, service.ErrEmptyText) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no text found in image"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"raw_text": rawText,
		"receipt":  receipt,
	})
}
