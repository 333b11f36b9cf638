package handlers

import (
	"net/http"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/admin"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	d, err := h.svc.Dashboard(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	h.svc.RecordView(ctx, actor(c), "Dashboard", "Viewed admin dashboard")

	render(c, http.StatusOK, "admin_dashboard.html", gin.H{"Dashboard": d})
}

func (h *Handlers) DashboardAction(c *gin.Context) {
	var res admin.Result
	var err error
	switch c.PostForm("action") {
	case "create_sample_data":
		res, err = h.svc.CreateSampleData(c.Request.Context(), actor(c))
	default:
		res = admin.Result{Message: "Unknown action."}
	}
	if err != nil {
		fail(c, err)
		return
	}
	flashResult(c, res)
	c.Redirect(http.StatusFound, dashboardPath)
}
