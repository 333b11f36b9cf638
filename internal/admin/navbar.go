package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/models"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/slots"
)

const navbarModel = "NavbarImage"

type NavbarInput struct {
	Name   string
	Active bool
	File   *FileUpload
}

func navbarName(category models.ImageCategory, name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return "Company " + category.Label()
}

// navbarImage — картинка по id, но только из нужной эксклюзивной категории.
func (s *Service) navbarImage(ctx context.Context, category models.ImageCategory, id uint) (*models.ImageAsset, error) {
	if !category.Exclusive() {
		return nil, fmt.Errorf("%w: image category %q", ErrNotFound, category)
	}
	asset, err := s.slots.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if asset.Category != category {
		return nil, fmt.Errorf("%w: image %d is not a %s", ErrNotFound, id, category)
	}
	return asset, nil
}

func (s *Service) NavbarImages(ctx context.Context, category models.ImageCategory) ([]models.ImageAsset, error) {
	if !category.Exclusive() {
		return nil, fmt.Errorf("%w: image category %q", ErrNotFound, category)
	}
	return s.slots.List(ctx, category)
}

// UploadNavbarImage — новая картинка сразу активна, остальные выключаются.
func (s *Service) UploadNavbarImage(ctx context.Context, a Actor, category models.ImageCategory, in NavbarInput) (res Result, err error) {
	defer guard("navbar.upload", &res, &err)

	if !category.Exclusive() {
		return Result{}, fmt.Errorf("%w: image category %q", ErrNotFound, category)
	}
	label := category.Label()
	if in.File.empty() {
		return invalid([]string{"Image is required"}), nil
	}

	asset, err := s.slots.UploadNew(ctx, category, slots.Upload{
		Name:     navbarName(category, in.Name),
		Filename: in.File.Filename,
		Data:     in.File.Data,
	})
	if err != nil {
		return settle("navbar.upload", "Error uploading "+strings.ToLower(label), err)
	}

	s.record(ctx, a, models.ActionCreate, navbarModel,
		fmt.Sprintf("Uploaded %s: %s", strings.ToLower(label), asset.Name), asset.ID)
	return ok(fmt.Sprintf("%s \"%s\" uploaded successfully!", label, asset.Name), asset.ID), nil
}

func (s *Service) ToggleNavbarImage(ctx context.Context, a Actor, category models.ImageCategory, id uint) (res Result, err error) {
	defer guard("navbar.toggle", &res, &err)

	if _, err := s.navbarImage(ctx, category, id); err != nil {
		return settle("navbar.toggle", "Error updating "+strings.ToLower(category.Label()), err)
	}
	asset, err := s.slots.Toggle(ctx, id)
	if err != nil {
		return settle("navbar.toggle", "Error updating "+strings.ToLower(category.Label()), err)
	}

	label := category.Label()
	s.record(ctx, a, models.ActionUpdate, navbarModel,
		fmt.Sprintf("Toggled active status for %s: %s", strings.ToLower(label), asset.Name), asset.ID)
	return ok(fmt.Sprintf("%s \"%s\" status updated!", label, asset.Name), asset.ID), nil
}

// EditNavbarImage меняет имя, активность и, если передан, файл.
func (s *Service) EditNavbarImage(ctx context.Context, a Actor, category models.ImageCategory, id uint, in NavbarInput) (res Result, err error) {
	defer guard("navbar.edit", &res, &err)

	label := category.Label()
	if _, err := s.navbarImage(ctx, category, id); err != nil {
		return settle("navbar.edit", "Error updating "+strings.ToLower(label), err)
	}

	name := navbarName(category, in.Name)
	active := in.Active
	edit := slots.Edit{Name: &name, Active: &active}
	if !in.File.empty() {
		edit.File = &slots.Upload{Name: name, Filename: in.File.Filename, Data: in.File.Data}
	}

	asset, err := s.slots.Edit(ctx, id, edit)
	if err != nil {
		return settle("navbar.edit", "Error updating "+strings.ToLower(label), err)
	}

	s.record(ctx, a, models.ActionUpdate, navbarModel,
		fmt.Sprintf("Updated %s: %s", strings.ToLower(label), asset.Name), asset.ID)
	return ok(fmt.Sprintf("%s \"%s\" updated successfully!", label, asset.Name), asset.ID), nil
}

func (s *Service) DeleteNavbarImage(ctx context.Context, a Actor, category models.ImageCategory, id uint) (res Result, err error) {
	defer guard("navbar.delete", &res, &err)

	label := category.Label()
	if _, err := s.navbarImage(ctx, category, id); err != nil {
		return settle("navbar.delete", "Error deleting "+strings.ToLower(label), err)
	}
	asset, err := s.slots.Delete(ctx, id)
	if err != nil {
		return settle("navbar.delete", "Error deleting "+strings.ToLower(label), err)
	}

	s.record(ctx, a, models.ActionDelete, navbarModel,
		fmt.Sprintf("Deleted %s: %s", strings.ToLower(label), asset.Name), asset.ID)
	return ok(fmt.Sprintf("%s \"%s\" deleted successfully!", label, asset.Name), asset.ID), nil
}
