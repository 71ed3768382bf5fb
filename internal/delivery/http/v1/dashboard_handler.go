package v1

import (
	"net/http"

	"banjara-intake-backend/internal/delivery/http/response"
	"banjara-intake-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardUC domain.DashboardUsecase
}

func NewDashboardHandler(protected *gin.RouterGroup, dashboardUC domain.DashboardUsecase) {
	handler := &DashboardHandler{dashboardUC: dashboardUC}
	protected.GET("/dashboard", handler.Counts)
}

// Counts godoc
// @Summary      Dashboard Counts
// @Description  Submissions per category created inside the window. custom needs from (and optionally to) as YYYY-MM-DD or RFC3339.
// @Tags         review
// @Produce      json
// @Security     BearerAuth
// @Param        window  query  string  false  "Window"  Enums(today, 7days, 30days, custom)
// @Param        from    query  string  false  "Custom range start"
// @Param        to      query  string  false  "Custom range end (inclusive)"
// @Success      200  {object}  response.Response{data=domain.DashboardCounts}
// @Failure      400  {object}  response.Response
// @Router       /admin/dashboard [get]
func (h *DashboardHandler) Counts(c *gin.Context) {
	counts, err := h.dashboardUC.Counts(c.Request.Context(), domain.WindowQuery{
		Window: domain.Window(c.Query("window")),
		From:   c.Query("from"),
		To:     c.Query("to"),
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Dashboard counts retrieved", counts)
}
