package v1

import (
	"errors"
	"fmt"
	"net/http"

	"banjara-intake-backend/internal/delivery/http/response"
	"banjara-intake-backend/internal/domain"
	"banjara-intake-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewUC   domain.ReviewUsecase
	workflowUC domain.WorkflowUsecase
	exportUC   domain.ExportUsecase
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func NewReviewHandler(protected *gin.RouterGroup, reviewUC domain.ReviewUsecase, workflowUC domain.WorkflowUsecase, exportUC domain.ExportUsecase) {
	handler := &ReviewHandler{
		reviewUC:   reviewUC,
		workflowUC: workflowUC,
		exportUC:   exportUC,
	}

	submissions := protected.Group("/submissions/:kind")
	{
		submissions.GET("", handler.List)
		submissions.GET("/export", handler.Export)
		submissions.GET("/:id", handler.Get)
		submissions.GET("/:id/history", handler.History)
		submissions.PATCH("/:id/status", handler.SetStatus)
	}
}

func kindParam(c *gin.Context) (domain.Kind, bool) {
	kind, err := domain.ParseKind(c.Param("kind"))
	if err != nil {
		c.Error(err)
		return "", false
	}
	return kind, true
}

func listFilter(c *gin.Context) domain.ListFilter {
	return domain.ListFilter{
		Search: c.Query("search"),
		Status: domain.Status(c.Query("status")),
	}
}

// filterError reports an unknown status in a listing filter as a bad request.
func filterError(err error) error {
	var stateErr *domain.InvalidStateError
	if errors.As(err, &stateErr) {
		return apperror.New(http.StatusBadRequest, stateErr.Error(), stateErr)
	}
	return err
}

// List godoc
// @Summary      List Submissions
// @Description  Submissions of one category, newest first. search matches the name or location; status filters by state ("all" for every state).
// @Tags         review
// @Produce      json
// @Security     BearerAuth
// @Param        kind    path   string  true   "Category"  Enums(job-seekers, staff, kitchen, ccg)
// @Param        search  query  string  false  "Name or location contains"
// @Param        status  query  string  false  "Status filter"
// @Success      200  {object}  response.Response{data=[]domain.Submission}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /admin/submissions/{kind} [get]
func (h *ReviewHandler) List(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}

	items, err := h.reviewUC.List(c.Request.Context(), kind, listFilter(c))
	if err != nil {
		c.Error(filterError(err))
		return
	}

	response.Success(c, http.StatusOK, "Submissions retrieved", items)
}

// Get godoc
// @Summary      Get Submission
// @Tags         review
// @Produce      json
// @Security     BearerAuth
// @Param        kind  path  string  true  "Category"
// @Param        id    path  string  true  "Submission ID"
// @Success      200  {object}  response.Response{data=domain.Submission}
// @Failure      404  {object}  response.Response
// @Router       /admin/submissions/{kind}/{id} [get]
func (h *ReviewHandler) Get(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}

	item, err := h.reviewUC.Get(c.Request.Context(), kind, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Submission retrieved", item)
}

// History godoc
// @Summary      Submission Status History
// @Description  Status changes of one submission, oldest first.
// @Tags         review
// @Produce      json
// @Security     BearerAuth
// @Param        kind  path  string  true  "Category"
// @Param        id    path  string  true  "Submission ID"
// @Success      200  {object}  response.Response{data=[]domain.StatusChange}
// @Failure      404  {object}  response.Response
// @Router       /admin/submissions/{kind}/{id}/history [get]
func (h *ReviewHandler) History(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}

	changes, err := h.reviewUC.History(c.Request.Context(), kind, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Status history retrieved", changes)
}

// SetStatus godoc
// @Summary      Set Submission Status
// @Description  Moves a submission to any state of its category's status set.
// @Tags         review
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        kind     path  string            true  "Category"
// @Param        id       path  string            true  "Submission ID"
// @Param        request  body  SetStatusRequest  true  "New status"
// @Success      200  {object}  response.Response{data=domain.Submission}
// @Failure      404  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /admin/submissions/{kind}/{id}/status [patch]
func (h *ReviewHandler) SetStatus(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("status is required"))
		return
	}

	item, err := h.workflowUC.SetStatus(c.Request.Context(), kind, c.Param("id"), domain.Status(req.Status))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, fmt.Sprintf("Status updated to %s", item.Status()), item)
}

// Export godoc
// @Summary      Export Submissions
// @Description  Downloads the filtered listing as XLSX (default) or CSV.
// @Tags         review
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      text/csv
// @Security     BearerAuth
// @Param        kind    path   string  true   "Category"
// @Param        format  query  string  false  "xlsx or csv"
// @Param        search  query  string  false  "Name or location contains"
// @Param        status  query  string  false  "Status filter"
// @Success      200  {file}    binary
// @Failure      400  {object}  response.Response
// @Router       /admin/submissions/{kind}/export [get]
func (h *ReviewHandler) Export(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}

	data, filename, err := h.exportUC.Export(c.Request.Context(), domain.ExportRequest{
		Kind:   kind,
		Filter: listFilter(c),
		Format: c.Query("format"),
	})
	if err != nil {
		c.Error(filterError(err))
		return
	}

	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if c.Query("format") == "csv" {
		contentType = "text/csv; charset=utf-8"
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, data)
}
