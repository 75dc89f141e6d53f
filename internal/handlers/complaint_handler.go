package handlers

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Darkdevil-tech-tech/voiceofcode/internal/services"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/utils"
)

type ComplaintHandler struct {
	BaseHandler
	complaintService services.ComplaintService
}

func NewComplaintHandler(complaintService services.ComplaintService, logger utils.Logger) *ComplaintHandler {
	return &ComplaintHandler{
		BaseHandler:      NewBaseHandler(logger),
		complaintService: complaintService,
	}
}

// CreateComplaint submits a new complaint, optionally with an attachment
// @Summary Create complaint
// @Description Submits a complaint as multipart form data with an optional file part
// @Tags complaints
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title (5-200 chars)"
// @Param category formData string true "Category"
// @Param description formData string true "Description (20-2000 chars)"
// @Param file formData file false "Attachment (max 10MB)"
// @Success 201 {object} services.ComplaintResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /complaints [post]
func (h *ComplaintHandler) CreateComplaint(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	var req services.CreateComplaintRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating complaint", "user_id", userID)

	var upload *services.AttachmentUpload
	var body io.Reader

	fileHeader, err := c.FormFile("file")
	if err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Unreadable file upload",
			})
			return
		}
		defer file.Close()

		// Sniff the first bytes, then stitch the reader back together so
		// the full content still streams to the store.
		head := make([]byte, 512)
		n, err := io.ReadFull(file, head)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Unreadable file upload",
			})
			return
		}
		head = head[:n]

		upload = &services.AttachmentUpload{
			Filename:    fileHeader.Filename,
			Size:        fileHeader.Size,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Head:        head,
		}
		body = io.MultiReader(bytes.NewReader(head), file)
	}

	complaint, err := h.complaintService.Create(c.Request.Context(), &req, userID, upload, body)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, complaint)
}

// ListComplaints returns the caller's own complaints, newest first
// @Summary List own complaints
// @Tags complaints
// @Produce json
// @Success 200 {object} services.ComplaintListResponse
// @Failure 401 {object} ErrorResponse
// @Router /complaints [get]
func (h *ComplaintHandler) ListComplaints(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	list, err := h.complaintService.ListOwn(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// GetComplaint returns one complaint to its owner or an admin
// @Summary Get complaint
// @Tags complaints
// @Produce json
// @Param id path uint true "Complaint ID"
// @Success 200 {object} services.ComplaintResponse
// @Failure 404 {object} ErrorResponse
// @Router /complaints/{id} [get]
func (h *ComplaintHandler) GetComplaint(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	complaint, err := h.complaintService.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, complaint)
}

// UpdateComplaint edits an owned complaint while it is still Pending
// @Summary Update complaint
// @Tags complaints
// @Accept json
// @Produce json
// @Param id path uint true "Complaint ID"
// @Param complaint body services.UpdateComplaintRequest true "Fields to update"
// @Success 200 {object} services.ComplaintResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /complaints/{id} [put]
func (h *ComplaintHandler) UpdateComplaint(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	var req services.UpdateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	complaint, err := h.complaintService.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, complaint)
}

// DeleteComplaint removes an owned Pending complaint
// @Summary Delete complaint
// @Tags complaints
// @Produce json
// @Param id path uint true "Complaint ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /complaints/{id} [delete]
func (h *ComplaintHandler) DeleteComplaint(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	if err := h.complaintService.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Complaint deleted",
	})
}
