package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/models"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/validation"
)

const leadModel = "ContactMessage"

const LeadThanks = "Thank you for your message! We will get back to you soon."

// LeadInput — публичная форма контактов. Порядок полей задаёт порядок
// сообщений об ошибках.
type LeadInput struct {
	FirstName    string `json:"first_name" form:"first_name" validate:"required,max=100" label:"First name"`
	LastName     string `json:"last_name" form:"last_name" validate:"required,max=100" label:"Last name"`
	Email        string `json:"email" form:"email" validate:"required,email,max=254" label:"Email"`
	Phone        string `json:"phone" form:"phone" validate:"required,max=20" label:"Phone number"`
	PropertyType string `json:"property_type" form:"property_type" validate:"omitempty,oneof=apartment house land commercial other" label:"Property type"`
	Budget       string `json:"budget" form:"budget" validate:"omitempty,oneof=under-50 50-100 100-200 200-500 above-500" label:"Budget"`
	Message      string `json:"message" form:"message" validate:"required" label:"Message"`
	Newsletter   bool   `json:"newsletter_subscription" form:"newsletter_subscription"`
}

func (in *LeadInput) normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.PropertyType = strings.TrimSpace(in.PropertyType)
	in.Budget = strings.TrimSpace(in.Budget)
	in.Message = strings.TrimSpace(in.Message)
}

// SubmitLead сохраняет заявку с сайта. Журнал не пишется: автор не админ.
func (s *Service) SubmitLead(ctx context.Context, in LeadInput, ip string) (res Result, err error) {
	defer guard("leads.submit", &res, &err)

	in.normalize()
	if errs := validation.Struct(in); len(errs) > 0 {
		return invalid(errs), nil
	}

	l := &models.Lead{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Phone:        in.Phone,
		PropertyType: in.PropertyType,
		Budget:       in.Budget,
		Message:      in.Message,
		Newsletter:   in.Newsletter,
		Status:       models.LeadNew,
		IPAddress:    ip,
	}
	if err := s.catalog.CreateLead(ctx, l); err != nil {
		return settle("leads.submit", "Error sending message", err)
	}
	return ok(LeadThanks, l.ID), nil
}

func (s *Service) UpdateLeadStatus(ctx context.Context, a Actor, id uint, status string) (res Result, err error) {
	defer guard("leads.status", &res, &err)

	next := models.LeadStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return fail("Invalid message status."), nil
	}

	l, old, err := s.catalog.UpdateLeadStatus(ctx, id, next)
	if err != nil {
		return settle("leads.status", "Error updating message", err)
	}

	s.record(ctx, a, models.ActionUpdate, leadModel,
		fmt.Sprintf("Updated message status from %s to %s for %s", old, next, l.FullName()), l.ID)
	return ok(fmt.Sprintf("Message status updated to %s!", next.Label()), l.ID), nil
}

func (s *Service) DeleteLead(ctx context.Context, a Actor, id uint) (res Result, err error) {
	defer guard("leads.delete", &res, &err)

	l, err := s.catalog.GetLead(ctx, id)
	if err != nil {
		return settle("leads.delete", "Error deleting message", err)
	}
	if err := s.catalog.DeleteLead(ctx, id); err != nil {
		return settle("leads.delete", "Error deleting message", err)
	}

	name := l.FullName()
	s.record(ctx, a, models.ActionDelete, leadModel, "Deleted contact message from "+name, id)
	return ok(fmt.Sprintf("Message from %s deleted successfully!", name), id), nil
}

func (s *Service) MarkAllLeadsRead(ctx context.Context, a Actor) (res Result, err error) {
	defer guard("leads.mark_read", &res, &err)

	n, err := s.catalog.MarkAllRead(ctx)
	if err != nil {
		return settle("leads.mark_read", "Error updating messages", err)
	}

	s.record(ctx, a, models.ActionUpdate, leadModel, fmt.Sprintf("Marked %d messages as read", n), 0)
	return ok(fmt.Sprintf("%d messages marked as read!", n), 0), nil
}
