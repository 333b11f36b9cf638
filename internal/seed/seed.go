// Package seed загружает демонстрационные данные из встроенного fixtures.yaml.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"image/color"
	"image/png"
	"strconv"
	"strings"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/catalog"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/models"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/slots"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

type Company struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	Phone   string `yaml:"phone"`
	Email   string `yaml:"email"`
	About   string `yaml:"about"`
}

type Listing struct {
	Name           string   `yaml:"name"`
	Area           string   `yaml:"area"`
	Location       string   `yaml:"location"`
	Division       string   `yaml:"division"`
	District       string   `yaml:"district"`
	AreaName       string   `yaml:"area_name"`
	Description    string   `yaml:"description"`
	ProjectStatus  string   `yaml:"project_status"`
	PropertyType   string   `yaml:"property_type"`
	PricePerKatha  *float64 `yaml:"price_per_katha"`
	TotalPlots     *uint    `yaml:"total_plots"`
	AvailablePlots *uint    `yaml:"available_plots"`
	Amenities      string   `yaml:"amenities"`
	IsFeatured     bool     `yaml:"is_featured"`
	IsActive       bool     `yaml:"is_active"`
}

type Slide struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	ButtonText  string `yaml:"button_text"`
	ButtonURL   string `yaml:"button_url"`
	Color       string `yaml:"color"`
	Order       int    `yaml:"order"`
}

type Fixtures struct {
	Company  Company   `yaml:"company"`
	Listings []Listing `yaml:"listings"`
	Slides   []Slide   `yaml:"slides"`
}

// Load разбирает встроенные фикстуры.
func Load() (*Fixtures, error) {
	return Parse(fixturesYAML)
}

func Parse(raw []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("seed: parse fixtures: %w", err)
	}
	return &f, nil
}

type Seeder struct {
	Catalog  *catalog.Store
	Slots    *slots.Registry
	Fixtures *Fixtures
}

func New(store *catalog.Store, reg *slots.Registry) (*Seeder, error) {
	f, err := Load()
	if err != nil {
		return nil, err
	}
	return &Seeder{Catalog: store, Slots: reg, Fixtures: f}, nil
}

type Report struct {
	Listings int
	Slides   int
	Company  bool
}

func (r Report) String() string {
	return fmt.Sprintf("%d land properties, %d carousel slides", r.Listings, r.Slides)
}

// All создаёт всё, чего ещё нет. Повторный запуск ничего не дублирует.
func (s *Seeder) All(ctx context.Context) (Report, error) {
	var rep Report
	var err error
	if rep.Company, err = s.Company(ctx); err != nil {
		return rep, err
	}
	if rep.Listings, err = s.Listings(ctx); err != nil {
		return rep, err
	}
	if rep.Slides, err = s.Slides(ctx); err != nil {
		return rep, err
	}
	return rep, nil
}

func (s *Seeder) Company(ctx context.Context) (bool, error) {
	existing, err := s.Catalog.CompanyInfo(ctx)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	c := s.Fixtures.Company
	info := &models.CompanyInfo{Name: c.Name, Address: c.Address, Phone: c.Phone, Email: c.Email, About: c.About}
	if info.Name == "" {
		info.Name = models.DefaultCompanyName
	}
	return true, s.Catalog.SaveCompanyInfo(ctx, info)
}

// Listings создаёт объявления, которых нет по имени.
func (s *Seeder) Listings(ctx context.Context) (int, error) {
	created := 0
	for _, l := range s.Fixtures.Listings {
		exists, err := s.Catalog.ListingExists(ctx, l.Name)
		if err != nil {
			return created, err
		}
		if exists {
			log.Debug().Str("name", l.Name).Msg("land property already exists")
			continue
		}
		p := &models.LandProperty{
			Name:           l.Name,
			Area:           l.Area,
			Location:       l.Location,
			Division:       models.Division(l.Division),
			District:       l.District,
			AreaName:       l.AreaName,
			Description:    l.Description,
			ProjectStatus:  models.ProjectStatus(l.ProjectStatus),
			PropertyType:   models.PropertyType(l.PropertyType),
			PricePerKatha:  l.PricePerKatha,
			TotalPlots:     l.TotalPlots,
			AvailablePlots: l.AvailablePlots,
			Amenities:      l.Amenities,
			IsFeatured:     l.IsFeatured,
			IsActive:       l.IsActive,
		}
		if err := s.Catalog.CreateListing(ctx, p); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// Slides создаёт слайды с однотонной картинкой, только если слайдов ещё нет.
func (s *Seeder) Slides(ctx context.Context) (int, error) {
	existing, err := s.Catalog.ListSlides(ctx, false)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	created := 0
	for _, sl := range s.Fixtures.Slides {
		data, err := placeholder(sl.Color)
		if err != nil {
			return created, err
		}
		asset, err := s.Slots.UploadNew(ctx, models.CategoryCarouselSlide, slots.Upload{
			Name:     sl.Title,
			Filename: "slide-" + strconv.Itoa(sl.Order) + ".png",
			Data:     data,
			Active:   true,
			Order:    sl.Order,
		})
		if err != nil {
			return created, err
		}
		slide := &models.CarouselSlide{
			Title:       sl.Title,
			Description: sl.Description,
			ButtonText:  sl.ButtonText,
			ButtonURL:   sl.ButtonURL,
			ImageID:     asset.ID,
		}
		if err := s.Catalog.CreateSlide(ctx, slide); err != nil {
			if _, derr := s.Slots.Delete(ctx, asset.ID); derr != nil {
				log.Warn().Err(derr).Uint("image_id", asset.ID).Msg("seed cleanup failed")
			}
			return created, err
		}
		created++
	}
	return created, nil
}

// Logo загружает логотип и делает его активным.
func (s *Seeder) Logo(ctx context.Context, name, filename string, data []byte) (*models.ImageAsset, error) {
	if name == "" {
		name = models.DefaultCompanyName
	}
	return s.Slots.UploadNew(ctx, models.CategoryLogo, slots.Upload{Name: name, Filename: filename, Data: data})
}

func placeholder(hex string) ([]byte, error) {
	c, err := parseHex(hex)
	if err != nil {
		return nil, err
	}
	img := imaging.New(320, 173, c)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("seed: encode placeholder: %w", err)
	}
	return buf.Bytes(), nil
}

func parseHex(hex string) (color.NRGBA, error) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("seed: bad colour %q", hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("seed: bad colour %q: %w", hex, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
