package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	registrationapp "github.com/bizreg/backend/internal/application/registration"
)

// maxDocumentSize caps a single identity document upload at 10 MiB
const maxDocumentSize = 10 << 20

// DocumentHandler handles owner identity document uploads
type DocumentHandler struct {
	BaseHandler
	service *registrationapp.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(service *registrationapp.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		service: service,
	}
}

// UploadDocument accepts a multipart upload under the "file" field and
// stores it for the user, returning the public URL.
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	callerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	if callerID != userID {
		h.Forbidden(c, "Cannot upload documents for another user")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file upload")
		return
	}
	if fileHeader.Size > maxDocumentSize {
		h.BadRequest(c, "File exceeds the maximum allowed size")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Cannot read file upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxDocumentSize+1))
	if err != nil {
		h.InternalError(c, "Failed to read file upload")
		return
	}
	if len(data) > maxDocumentSize {
		h.BadRequest(c, "File exceeds the maximum allowed size")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	doc, err := h.service.UploadOwnerDocument(c.Request.Context(), userID, fileHeader.Filename, contentType, data)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, doc)
}

// DeleteDocument removes a previously uploaded document by its public URL
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	callerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	if callerID != userID {
		h.Forbidden(c, "Cannot delete documents for another user")
		return
	}

	var req registrationapp.DeleteOwnerDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindingError(c, err)
		return
	}

	if err := h.service.DeleteOwnerDocument(c.Request.Context(), req.URL); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers all document routes
func (h *DocumentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	documents := rg.Group("/users/:userId/documents")
	{
		documents.POST("", h.UploadDocument)
		documents.DELETE("", h.DeleteDocument)
	}
}
