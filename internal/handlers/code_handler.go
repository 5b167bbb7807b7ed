package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/haivt/luckydraw-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CodeHandler handles the admin bracelet-code table
type CodeHandler struct {
	codeService *services.CodeService
}

// NewCodeHandler creates a new CodeHandler
func NewCodeHandler(codeService *services.CodeService) *CodeHandler {
	return &CodeHandler{codeService: codeService}
}

// GetAllCodes handles GET /codes
func (h *CodeHandler) GetAllCodes(c *gin.Context) {
	codes, err := h.codeService.GetAllCodes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, codes)
}

// CreateCodeRequest is the body of POST /codes
type CreateCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// CreateCode handles POST /codes
func (h *CodeHandler) CreateCode(c *gin.Context) {
	var req CreateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code, err := h.codeService.CreateCode(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, code)
}

// BulkGenerateRequest is the body of POST /codes/bulk
type BulkGenerateRequest struct {
	Count int `json:"count" binding:"required,min=1,max=1000"`
}

// BulkGenerate handles POST /codes/bulk
func (h *CodeHandler) BulkGenerate(c *gin.Context) {
	var req BulkGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	codes, err := h.codeService.BulkGenerate(c.Request.Context(), req.Count)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, codes)
}

// DeleteCode handles DELETE /codes/:id
func (h *CodeHandler) DeleteCode(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ID format"})
		return
	}

	if err := h.codeService.DeleteCode(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "code deleted"})
}

// ExportCodes handles GET /codes/export
func (h *CodeHandler) ExportCodes(c *gin.Context) {
	f, err := h.codeService.ExportCodes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="bracelet-codes.xlsx"`)
	if err := f.Write(c.Writer); err != nil {
		respondError(c, err)
	}
}
