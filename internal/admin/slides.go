package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/imageproc"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/models"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/slots"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/validation"

	"github.com/rs/zerolog/log"
)

const slideModel = "CarouselSlide"

type SlideInput struct {
	Title       string `validate:"required,max=200" label:"Title"`
	Description string `label:"Description"`
	ButtonText  string `validate:"max=50" label:"Button text"`
	ButtonURL   string `validate:"omitempty,link,max=500" label:"Button URL"`
	Active      bool
	Order       int
	File        *FileUpload `validate:"-"`
}

func (in *SlideInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.ButtonText = strings.TrimSpace(in.ButtonText)
	in.ButtonURL = strings.TrimSpace(in.ButtonURL)
	if in.ButtonText == "" {
		in.ButtonText = models.DefaultButtonText
	}
}

// CreateSlide: картинка перекодируется в 1200x650, потом создаётся слайд.
// Если слайд не создался, картинка удаляется.
func (s *Service) CreateSlide(ctx context.Context, a Actor, in SlideInput) (res Result, err error) {
	defer guard("slides.create", &res, &err)

	in.normalize()
	errs := validation.Struct(in)
	if in.File.empty() {
		errs = append(errs, "Image is required")
	}
	if len(errs) > 0 {
		return invalid(errs), nil
	}

	asset, err := s.slots.UploadNew(ctx, models.CategoryCarouselSlide, slots.Upload{
		Name:     in.Title,
		Filename: in.File.Filename,
		Data:     in.File.Data,
		Active:   in.Active,
		Order:    in.Order,
	})
	if err != nil {
		return settle("slides.create", "Error creating carousel slide", err)
	}

	slide := &models.CarouselSlide{
		Title:       in.Title,
		Description: in.Description,
		ButtonText:  in.ButtonText,
		ButtonURL:   in.ButtonURL,
		ImageID:     asset.ID,
	}
	if err := s.catalog.CreateSlide(ctx, slide); err != nil {
		if _, derr := s.slots.Delete(ctx, asset.ID); derr != nil {
			log.Warn().Err(derr).Uint("image_id", asset.ID).Msg("failed to clean up slide image")
		}
		return settle("slides.create", "Error creating carousel slide", err)
	}

	s.record(ctx, a, models.ActionCreate, slideModel, "Created carousel slide: "+slide.Title, slide.ID)
	t := imageproc.CarouselTarget
	return ok(fmt.Sprintf("Carousel slide \"%s\" created successfully! Image resized to %dx%d.", slide.Title, t.Width, t.Height), slide.ID), nil
}

// UpdateSlide меняет текст слайда, активность и порядок картинки и,
// если передан, сам файл.
func (s *Service) UpdateSlide(ctx context.Context, a Actor, id uint, in SlideInput) (res Result, err error) {
	defer guard("slides.update", &res, &err)

	slide, err := s.catalog.GetSlide(ctx, id)
	if err != nil {
		return settle("slides.update", "Error updating slide", err)
	}

	in.normalize()
	if errs := validation.Struct(in); len(errs) > 0 {
		return invalid(errs), nil
	}

	slide.Title = in.Title
	slide.Description = in.Description
	slide.ButtonText = in.ButtonText
	slide.ButtonURL = in.ButtonURL
	if err := s.catalog.SaveSlide(ctx, slide); err != nil {
		return settle("slides.update", "Error updating slide", err)
	}

	edit := slots.Edit{Name: &in.Title, Order: &in.Order, Active: &in.Active}
	if !in.File.empty() {
		edit.File = &slots.Upload{Name: in.Title, Filename: in.File.Filename, Data: in.File.Data}
	}
	if _, err := s.slots.Edit(ctx, slide.ImageID, edit); err != nil {
		return settle("slides.update", "Error updating slide", err)
	}

	s.record(ctx, a, models.ActionUpdate, slideModel, "Updated carousel slide: "+slide.Title, slide.ID)
	return ok(fmt.Sprintf("Slide \"%s\" updated successfully!", slide.Title), slide.ID), nil
}

func (s *Service) ToggleSlide(ctx context.Context, a Actor, id uint) (res Result, err error) {
	defer guard("slides.toggle", &res, &err)

	slide, err := s.catalog.GetSlide(ctx, id)
	if err != nil {
		return settle("slides.toggle", "Error updating slide", err)
	}
	if _, err := s.slots.Toggle(ctx, slide.ImageID); err != nil {
		return settle("slides.toggle", "Error updating slide", err)
	}

	s.record(ctx, a, models.ActionUpdate, slideModel, "Toggled active status for: "+slide.Title, slide.ID)
	return ok(fmt.Sprintf("Slide \"%s\" status updated!", slide.Title), slide.ID), nil
}

// DeleteSlide: строка слайда, затем картинка вместе с файлом.
func (s *Service) DeleteSlide(ctx context.Context, a Actor, id uint) (res Result, err error) {
	defer guard("slides.delete", &res, &err)

	slide, err := s.catalog.GetSlide(ctx, id)
	if err != nil {
		return settle("slides.delete", "Error deleting slide", err)
	}
	if err := s.catalog.DeleteSlide(ctx, id); err != nil {
		return settle("slides.delete", "Error deleting slide", err)
	}
	if _, err := s.slots.Delete(ctx, slide.ImageID); err != nil {
		log.Warn().Err(err).Uint("image_id", slide.ImageID).Msg("failed to delete slide image")
	}

	s.record(ctx, a, models.ActionDelete, slideModel, "Deleted carousel slide: "+slide.Title, id)
	return ok(fmt.Sprintf("Slide \"%s\" deleted successfully!", slide.Title), id), nil
}
