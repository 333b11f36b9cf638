package handlers

import (
	"net/http"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/admin"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/catalog"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/models"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/pagination"

	"github.com/gin-gonic/gin"
)

const leadsPath = "/admin/contact-messages"

//
// ЗАЯВКИ С САЙТА
//

func (h *Handlers) Leads(c *gin.Context) {
	ctx := c.Request.Context()
	f := catalog.LeadFilter{
		Search:       c.Query("search"),
		Status:       c.Query("status"),
		PropertyType: c.Query("property_type"),
		Budget:       c.Query("budget"),
	}
	p := pagination.Parse(c.Query("page"), pagination.LeadsPerPage)

	page, err := h.svc.Catalog().ListLeads(ctx, f, p)
	if err != nil {
		fail(c, err)
		return
	}
	stats, err := h.svc.Catalog().LeadStats(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	h.svc.RecordView(ctx, actor(c), "ContactMessage", "Viewed contact messages management")

	render(c, http.StatusOK, "admin_leads.html", gin.H{
		"Page":          page,
		"Filter":        f,
		"Stats":         stats,
		"Statuses":      models.LeadStatusChoices,
		"PropertyTypes": models.InterestChoices,
		"BudgetRanges":  models.BudgetChoices,
	})
}

func (h *Handlers) LeadsAction(c *gin.Context) {
	ctx := c.Request.Context()
	a := actor(c)
	id := parseID(c.PostForm("message_id"))

	var res admin.Result
	var err error
	switch c.PostForm("action") {
	case "update_status":
		res, err = h.svc.UpdateLeadStatus(ctx, a, id, c.PostForm("status"))
	case "delete":
		res, err = h.svc.DeleteLead(ctx, a, id)
	case "mark_all_read":
		res, err = h.svc.MarkAllLeadsRead(ctx, a)
	default:
		res = admin.Result{Message: "Unknown action."}
	}
	if err != nil {
		fail(c, err)
		return
	}
	flashResult(c, res)
	c.Redirect(http.StatusFound, leadsPath)
}
