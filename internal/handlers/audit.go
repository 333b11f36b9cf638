package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/activity"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/models"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/pagination"

	"github.com/gin-gonic/gin"
)

const activitiesPath = "/admin/activities"

var dateRanges = []models.Choice{
	{Value: "today", Label: "Today"},
	{Value: "week", Label: "This week"},
	{Value: "month", Label: "This month"},
	{Value: "year", Label: "This year"},
}

func activityFilter(c *gin.Context) activity.Filter {
	return activity.Filter{
		Actor:     c.Query("admin"),
		Action:    c.Query("action"),
		Model:     c.Query("model"),
		DateRange: c.Query("date_range"),
	}
}

// Activities — журнал действий. ?export=1 отдаёт тот же фильтр в CSV.
func (h *Handlers) Activities(c *gin.Context) {
	if c.Query("export") != "" {
		h.ExportActivities(c)
		return
	}

	ctx := c.Request.Context()
	rec := h.svc.Activity()
	f := activityFilter(c)
	p := pagination.Parse(c.Query("page"), pagination.ActivitiesPerPage)

	page, err := rec.List(ctx, f, p)
	if err != nil {
		fail(c, err)
		return
	}
	stats, err := rec.Stats(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	modelNames, err := rec.ModelNames(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	actorNames, err := rec.ActorNames(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	h.svc.RecordView(ctx, actor(c), "AdminActivity",
		fmt.Sprintf("Viewed admin activities (page %d)", page.Meta.Page))

	render(c, http.StatusOK, "admin_activities.html", gin.H{
		"Page":       page,
		"Filter":     f,
		"Stats":      stats,
		"Actions":    models.ActionChoices,
		"ModelNames": modelNames,
		"ActorNames": actorNames,
		"DateRanges": dateRanges,
	})
}

func (h *Handlers) ExportActivities(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.svc.Activity().ExportCSV(c.Request.Context(), &buf, activityFilter(c)); err != nil {
		fail(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, activity.ExportFilename(time.Now())))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ConfirmPurgeActivities — страница подтверждения перед удалением журнала.
func (h *Handlers) ConfirmPurgeActivities(c *gin.Context) {
	total, err := h.svc.Activity().Count(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "admin_delete_activities.html", gin.H{"Total": total})
}

func (h *Handlers) PurgeActivities(c *gin.Context) {
	res, err := h.svc.PurgeActivities(c.Request.Context(), actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	flashResult(c, res)
	c.Redirect(http.StatusFound, activitiesPath)
}
