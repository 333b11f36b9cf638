package admin

import (
	"context"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/activity"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/catalog"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/models"
)

const (
	dashboardRecentActivities = 10
	dashboardRecentListings   = 5
)

type Dashboard struct {
	Listings         catalog.ListingStats
	Slides           catalog.SlideStats
	Leads            catalog.LeadStats
	Activity         activity.Stats
	Logos            int64
	ActiveLogos      int64
	RecentActivities []models.AdminActivity
	RecentListings   []models.LandProperty
}

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	var err error

	if d.Listings, err = s.catalog.ListingStats(ctx); err != nil {
		return nil, err
	}
	if d.Slides, err = s.catalog.SlideStats(ctx); err != nil {
		return nil, err
	}
	if d.Leads, err = s.catalog.LeadStats(ctx); err != nil {
		return nil, err
	}
	if d.Activity, err = s.activity.Stats(ctx); err != nil {
		return nil, err
	}
	if d.Logos, err = s.slots.Count(ctx, models.CategoryLogo, false); err != nil {
		return nil, err
	}
	if d.ActiveLogos, err = s.slots.Count(ctx, models.CategoryLogo, true); err != nil {
		return nil, err
	}
	if d.RecentActivities, err = s.activity.Recent(ctx, dashboardRecentActivities, 0); err != nil {
		return nil, err
	}
	if d.RecentListings, err = s.catalog.RecentListings(ctx, dashboardRecentListings); err != nil {
		return nil, err
	}
	return &d, nil
}
