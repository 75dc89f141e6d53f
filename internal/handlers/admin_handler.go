package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Darkdevil-tech-tech/voiceofcode/internal/models"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/repositories"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/services"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/utils"
)

type AdminHandler struct {
	BaseHandler
	adminService  services.AdminService
	exportService services.ExportService
}

func NewAdminHandler(adminService services.AdminService, exportService services.ExportService, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:   NewBaseHandler(logger),
		adminService:  adminService,
		exportService: exportService,
	}
}

// parseComplaintFilters turns ?status=&category= query params into repository
// filters. "all" and absence both mean no constraint; anything else must be a
// known enum value.
func (h *AdminHandler) parseComplaintFilters(c *gin.Context) (repositories.ComplaintFilters, bool) {
	var filters repositories.ComplaintFilters

	if status := c.DefaultQuery("status", services.FilterAll); status != services.FilterAll {
		s := models.ComplaintStatus(status)
		if !models.ValidStatus(s) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid status filter",
			})
			return filters, false
		}
		filters.Status = &s
	}

	if category := c.DefaultQuery("category", services.FilterAll); category != services.FilterAll {
		cat := models.ComplaintCategory(category)
		if !models.ValidCategory(cat) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid category filter",
			})
			return filters, false
		}
		filters.Category = &cat
	}

	return filters, true
}

// ListAllComplaints returns every complaint with submitter identity
// @Summary List all complaints
// @Description Admin view of all complaints, filterable by status and category
// @Tags admin
// @Produce json
// @Param status query string false "Status filter or 'all'"
// @Param category query string false "Category filter or 'all'"
// @Success 200 {object} services.AdminComplaintListResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/complaints [get]
func (h *AdminHandler) ListAllComplaints(c *gin.Context) {
	filters, ok := h.parseComplaintFilters(c)
	if !ok {
		return
	}

	list, err := h.adminService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// TriageComplaint applies a status/remarks mutation
// @Summary Triage complaint
// @Description Updates status and remarks under the version guard
// @Tags admin
// @Accept json
// @Produce json
// @Param id path uint true "Complaint ID"
// @Param triage body services.TriageRequest true "Status, remarks and expected version"
// @Success 200 {object} services.AdminComplaintResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/complaints/{id}/status [put]
func (h *AdminHandler) TriageComplaint(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	adminID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	var req services.TriageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Triaging complaint", "complaint_id", id, "admin_id", adminID)

	complaint, err := h.adminService.Triage(c.Request.Context(), id, &req, adminID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, complaint)
}

// ExportComplaints streams the filtered complaint list as an xlsx workbook
// @Summary Export complaints
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param status query string false "Status filter or 'all'"
// @Param category query string false "Category filter or 'all'"
// @Success 200 {file} binary
// @Failure 403 {object} ErrorResponse
// @Router /admin/complaints/export [get]
func (h *AdminHandler) ExportComplaints(c *gin.Context) {
	// Validate the enum values the same way the list endpoint does; the
	// export narrows in memory, so it takes the raw strings.
	if _, ok := h.parseComplaintFilters(c); !ok {
		return
	}
	status := c.DefaultQuery("status", services.FilterAll)
	category := c.DefaultQuery("category", services.FilterAll)

	data, err := h.exportService.ExportComplaints(c.Request.Context(), status, category)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("complaints-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
