// Package imageproc приводит загруженные картинки к размеру слота:
// cover-fit с центральной обрезкой и перекодированием в JPEG.
package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/webp"
)

const DefaultQuality = 85

// Target — размер и качество, к которым приводится категория картинок.
type Target struct {
	Width   int
	Height  int
	Quality int
}

// CarouselTarget — профиль слайдов карусели.
var CarouselTarget = Target{Width: 1200, Height: 650, Quality: DefaultQuality}

var errEmptyImage = errors.New("imageproc: image has zero size")

// Transcode возвращает JPEG ровно width×height. При любой ошибке
// отдаёт исходные байты без изменений.
func Transcode(raw []byte, width, height, quality int) []byte {
	out, err := transcode(raw, width, height, quality)
	if err != nil {
		log.Warn().Err(err).Int("bytes", len(raw)).Msg("image transcode failed, keeping original upload")
		return raw
	}
	return out
}

// Apply — то же самое через Target.
func (t Target) Apply(raw []byte) []byte {
	return Transcode(raw, t.Width, t.Height, t.Quality)
}

func transcode(raw []byte, width, height, quality int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("imageproc: invalid target %dx%d", width, height)
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("imageproc: decode: %w", err)
	}
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, errEmptyImage
	}

	flat := flatten(src)
	g := CoverGeometry(b.Dx(), b.Dy(), width, height)

	scaled := imaging.Resize(flat, g.ScaledWidth, g.ScaledHeight, imaging.Lanczos)
	cropped := imaging.Crop(scaled, image.Rect(g.Left, g.Top, g.Left+width, g.Top+height))

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, cropped, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("imageproc: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// flatten кладёт картинку на белый фон. Прозрачные и палитровые
// изображения так теряют альфу, непрозрачные остаются как были.
func flatten(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}

// Geometry — промежуточный размер после масштабирования и смещение обрезки.
type Geometry struct {
	ScaledWidth  int
	ScaledHeight int
	Left         int
	Top          int
}

// CoverGeometry: коэффициент max(w/srcW, h/srcH), размеры усечены до int,
// но не меньше цели, смещения обрезки округлены вниз.
func CoverGeometry(srcW, srcH, width, height int) Geometry {
	ratio := math.Max(float64(width)/float64(srcW), float64(height)/float64(srcH))

	sw := int(float64(srcW) * ratio)
	sh := int(float64(srcH) * ratio)
	if sw < width {
		sw = width
	}
	if sh < height {
		sh = height
	}

	return Geometry{
		ScaledWidth:  sw,
		ScaledHeight: sh,
		Left:         (sw - width) / 2,
		Top:          (sh - height) / 2,
	}
}

// Dimensions сообщает размер загруженной картинки без полного декодирования.
func Dimensions(raw []byte) (int, int, bool) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}
