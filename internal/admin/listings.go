package admin

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/models"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/slots"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/validation"

	"github.com/rs/zerolog/log"
)

const listingModel = "LandProperty"

// ListingInput — поля формы как есть, числа строками.
type ListingInput struct {
	Name           string `validate:"required,max=200" label:"Name"`
	Area           string `validate:"max=100" label:"Area"`
	Location       string `validate:"max=300" label:"Location"`
	Division       string `validate:"required,oneof=dhaka chittagong rajshahi khulna barisal sylhet rangpur mymensingh" label:"Division"`
	District       string `validate:"required,max=100" label:"District"`
	AreaName       string `validate:"max=100" label:"Area name"`
	Description    string `label:"Description"`
	ProjectStatus  string `validate:"required,oneof=ongoing completed upcoming" label:"Project status"`
	PropertyType   string `validate:"required,oneof=residential commercial mixed" label:"Property type"`
	PricePerKatha  string `validate:"omitempty,numeric" label:"Price per katha"`
	TotalPlots     string `validate:"omitempty,number" label:"Total plots"`
	AvailablePlots string `validate:"omitempty,number" label:"Available plots"`
	Amenities      string `label:"Amenities"`
	IsFeatured     bool
	IsActive       bool
	Image          *FileUpload `validate:"-"`
}

func (in *ListingInput) normalize() {
	for _, f := range []*string{
		&in.Name, &in.Area, &in.Location, &in.Division, &in.District, &in.AreaName,
		&in.ProjectStatus, &in.PropertyType, &in.PricePerKatha, &in.TotalPlots, &in.AvailablePlots,
	} {
		*f = strings.TrimSpace(*f)
	}
}

// plots: пусто или 0 — не задано.
func plots(raw string) *uint {
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		return nil
	}
	v := uint(n)
	return &v
}

func price(raw string) (*float64, bool) {
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, false
	}
	if v == 0 {
		return nil, true
	}
	return &v, true
}

// apply проверяет форму и переносит её в модель. Модель не трогается,
// если есть ошибки.
func (in ListingInput) apply(p *models.LandProperty) []string {
	in.normalize()
	errs := validation.Struct(in)

	pricePerKatha, okPrice := price(in.PricePerKatha)
	if !okPrice && in.PricePerKatha != "" && len(errs) == 0 {
		errs = append(errs, "Price per katha must be a positive number")
	}
	total, available := plots(in.TotalPlots), plots(in.AvailablePlots)
	if total != nil && available != nil && *available > *total {
		errs = append(errs, "Available plots cannot exceed total plots")
	}
	if len(errs) > 0 {
		return errs
	}

	p.Name = in.Name
	p.Area = in.Area
	p.Location = in.Location
	p.Division = models.Division(in.Division)
	p.District = in.District
	p.AreaName = in.AreaName
	p.Description = in.Description
	p.ProjectStatus = models.ProjectStatus(in.ProjectStatus)
	p.PropertyType = models.PropertyType(in.PropertyType)
	p.PricePerKatha = pricePerKatha
	p.TotalPlots = total
	p.AvailablePlots = available
	p.Amenities = in.Amenities
	p.IsFeatured = in.IsFeatured
	p.IsActive = in.IsActive
	return nil
}

func (s *Service) listingPhoto(ctx context.Context, name string, f *FileUpload) (*models.ImageAsset, error) {
	return s.slots.UploadNew(ctx, models.CategoryPropertyPhoto, slots.Upload{
		Name:     name,
		Filename: f.Filename,
		Data:     f.Data,
		Active:   true,
	})
}

func (s *Service) CreateListing(ctx context.Context, a Actor, in ListingInput) (res Result, err error) {
	defer guard("listings.create", &res, &err)

	var p models.LandProperty
	if errs := in.apply(&p); len(errs) > 0 {
		return invalid(errs), nil
	}

	if !in.Image.empty() {
		photo, err := s.listingPhoto(ctx, p.Name, in.Image)
		if err != nil {
			return settle("listings.create", "Error creating land property", err)
		}
		p.ImageID = &photo.ID
	}

	if err := s.catalog.CreateListing(ctx, &p); err != nil {
		if p.ImageID != nil {
			if _, derr := s.slots.Delete(ctx, *p.ImageID); derr != nil {
				log.Warn().Err(derr).Uint("image_id", *p.ImageID).Msg("failed to clean up listing photo")
			}
		}
		return settle("listings.create", "Error creating land property", err)
	}

	s.record(ctx, a, models.ActionCreate, listingModel, "Created land property: "+p.Name, p.ID)
	return ok(fmt.Sprintf("Land property \"%s\" created successfully!", p.Name), p.ID), nil
}

// UpdateListing; новая фотография заменяет файл старой, если она была.
func (s *Service) UpdateListing(ctx context.Context, a Actor, id uint, in ListingInput) (res Result, err error) {
	defer guard("listings.update", &res, &err)

	p, err := s.catalog.GetListing(ctx, id, false)
	if err != nil {
		return settle("listings.update", "Error updating land property", err)
	}
	if errs := in.apply(p); len(errs) > 0 {
		return invalid(errs), nil
	}

	var created *models.ImageAsset
	if !in.Image.empty() {
		if p.ImageID != nil {
			_, err = s.slots.Replace(ctx, *p.ImageID, slots.Upload{Name: p.Name, Filename: in.Image.Filename, Data: in.Image.Data})
		} else {
			created, err = s.listingPhoto(ctx, p.Name, in.Image)
			if created != nil {
				p.ImageID = &created.ID
			}
		}
		if err != nil {
			return settle("listings.update", "Error updating land property", err)
		}
	}

	p.Image = nil
	if err := s.catalog.SaveListing(ctx, p); err != nil {
		if created != nil {
			if _, derr := s.slots.Delete(ctx, created.ID); derr != nil {
				log.Warn().Err(derr).Uint("image_id", created.ID).Msg("failed to clean up listing photo")
			}
		}
		return settle("listings.update", "Error updating land property", err)
	}

	s.record(ctx, a, models.ActionUpdate, listingModel, "Updated land property: "+p.Name, p.ID)
	return ok(fmt.Sprintf("Land property \"%s\" updated successfully!", p.Name), p.ID), nil
}

// DeleteListing: строка, затем фотография вместе с файлом.
func (s *Service) DeleteListing(ctx context.Context, a Actor, id uint) (res Result, err error) {
	defer guard("listings.delete", &res, &err)

	p, err := s.catalog.GetListing(ctx, id, false)
	if err != nil {
		return settle("listings.delete", "Error deleting land property", err)
	}
	if err := s.catalog.DeleteListing(ctx, id); err != nil {
		return settle("listings.delete", "Error deleting land property", err)
	}
	if p.ImageID != nil {
		if _, err := s.slots.Delete(ctx, *p.ImageID); err != nil {
			log.Warn().Err(err).Uint("image_id", *p.ImageID).Msg("failed to delete listing photo")
		}
	}

	s.record(ctx, a, models.ActionDelete, listingModel, "Deleted land property: "+p.Name, id)
	return ok(fmt.Sprintf("Land property \"%s\" deleted successfully!", p.Name), id), nil
}

func (s *Service) ToggleFeatured(ctx context.Context, a Actor, id uint) (res Result, err error) {
	defer guard("listings.featured", &res, &err)

	p, err := s.catalog.ToggleFeatured(ctx, id)
	if err != nil {
		return settle("listings.featured", "Error updating land property", err)
	}
	s.record(ctx, a, models.ActionUpdate, listingModel, "Toggled featured status for: "+p.Name, p.ID)
	return ok(fmt.Sprintf("Land property \"%s\" featured status updated!", p.Name), p.ID), nil
}

func (s *Service) ToggleListingActive(ctx context.Context, a Actor, id uint) (res Result, err error) {
	defer guard("listings.active", &res, &err)

	p, err := s.catalog.ToggleListingActive(ctx, id)
	if err != nil {
		return settle("listings.active", "Error updating land property", err)
	}
	s.record(ctx, a, models.ActionUpdate, listingModel, "Toggled active status for: "+p.Name, p.ID)
	return ok(fmt.Sprintf("Land property \"%s\" active status updated!", p.Name), p.ID), nil
}

// CreateSampleData заводит демонстрационные объявления, слайды и реквизиты.
func (s *Service) CreateSampleData(ctx context.Context, a Actor) (res Result, err error) {
	defer guard("listings.sample", &res, &err)

	if s.seeder == nil {
		return fail("Error creating sample data: fixtures are not available"), nil
	}
	rep, err := s.seeder.All(ctx)
	if err != nil {
		log.Error().Err(err).Msg("sample data creation failed")
		return fail("Error creating sample data: " + reason(err)), nil
	}

	log.Info().Int("listings", rep.Listings).Int("slides", rep.Slides).Msg("sample data created")
	s.record(ctx, a, models.ActionCreate, listingModel, "Created sample land properties", 0)
	return ok("Sample land properties created successfully!", 0), nil
}
