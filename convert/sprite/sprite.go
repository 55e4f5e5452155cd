// Package sprite packs icons referenced by a style into Mapbox sprite sheets:
// a PNG image and a JSON index describing where every icon is.
package sprite

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io/fs"
	"os"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/dgraph-io/ristretto"
	"github.com/disintegration/imaging"
	"github.com/maruel/natural"
	"go.uber.org/zap"

	"stylebridge/config"
	"stylebridge/convert/mapbox"
	"stylebridge/utils/images"
)

// Entry is sprite index record of a single icon.
type Entry struct {
	X          int `json:"x"`
	Y          int `json:"y"`
	Width      int `json:"width"`
	Height     int `json:"height"`
	PixelRatio int `json:"pixelRatio"`
}

// Sheet is packed sprite image with its index.
type Sheet struct {
	Image      *image.NRGBA
	Index      map[string]Entry
	PixelRatio int
}

// Builder rasterizes icons and packs them. Decoded icons are cached between
// sheets, so the same icon used by many styles is decoded once.
type Builder struct {
	log   *zap.Logger
	cfg   *config.SpriteConfig
	cache *ristretto.Cache
}

func NewBuilder(cfg *config.SpriteConfig, log *zap.Logger) (*Builder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	b := &Builder{log: log.Named("sprite"), cfg: cfg}
	if cfg.CacheSize > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: 1e5,
			MaxCost:     cfg.CacheSize,
			BufferItems: 64,
		})
		if err != nil {
			return nil, fmt.Errorf("unable to create icon cache: %w", err)
		}
		b.cache = cache
	}
	return b, nil
}

// Close releases icon cache.
func (b *Builder) Close() {
	if b.cache != nil {
		b.cache.Close()
	}
}

// Build packs icons into a horizontal strip. Relative icon paths are
// resolved against dir inside fsys. Icons are named the way styles reference
// them, ordered naturally by name. Icons which cannot be read or decoded are
// skipped and reported in returned list.
func (b *Builder) Build(fsys fs.FS, dir string, icons []string, ratio int) (*Sheet, []string, error) {
	if ratio < 1 {
		ratio = 1
	}
	size := b.cfg.IconSize * ratio

	byName := make(map[string]string, len(icons))
	for _, p := range icons {
		name := mapbox.SpriteName(p)
		if prev, ok := byName[name]; ok && prev != p {
			b.log.Warn("Icon name collision, using first", zap.String("name", name), zap.String("used", prev), zap.String("skipped", p))
			continue
		}
		byName[name] = p
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}
		return 0
	})

	var (
		skipped []string
		decoded []image.Image
		packed  []string
	)
	for _, name := range names {
		img, err := b.icon(fsys, resolve(dir, byName[name]), size)
		if err != nil {
			b.log.Warn("Icon skipped", zap.String("icon", byName[name]), zap.Error(err))
			skipped = append(skipped, byName[name])
			continue
		}
		decoded = append(decoded, img)
		packed = append(packed, name)
	}
	if len(decoded) == 0 {
		return nil, skipped, errors.New("no icons to pack")
	}

	sheet := pack(packed, decoded, ratio)
	b.log.Debug("Sprite packed",
		zap.Int("icons", len(sheet.Index)), zap.Int("ratio", ratio),
		zap.Int("width", sheet.Image.Bounds().Dx()), zap.Int("height", sheet.Image.Bounds().Dy()))
	return sheet, skipped, nil
}

func pack(names []string, imgs []image.Image, ratio int) *Sheet {
	var width, height int
	for _, img := range imgs {
		width += img.Bounds().Dx()
		height = max(height, img.Bounds().Dy())
	}

	sheet := &Sheet{
		Image:      image.NewNRGBA(image.Rect(0, 0, width, height)),
		Index:      make(map[string]Entry, len(names)),
		PixelRatio: ratio,
	}
	x := 0
	for i, img := range imgs {
		bounds := img.Bounds()
		w, h := bounds.Dx(), bounds.Dy()
		draw.Draw(sheet.Image, image.Rect(x, 0, x+w, h), img, bounds.Min, draw.Over)
		sheet.Index[names[i]] = Entry{X: x, Y: 0, Width: w, Height: h, PixelRatio: ratio}
		x += w
	}
	return sheet
}

// icon returns decoded icon, looking into cache first. Cache key is content
// based since the same relative path means different files for different
// styles.
func (b *Builder) icon(fsys fs.FS, p string, size int) (image.Image, error) {
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:]) + ":" + strconv.Itoa(size)

	if b.cache != nil {
		if v, ok := b.cache.Get(key); ok {
			if img, ok := v.(image.Image); ok {
				return img, nil
			}
		}
	}

	img, err := images.Decode(data, size)
	if err != nil {
		return nil, err
	}
	if b.cache != nil {
		bounds := img.Bounds()
		b.cache.Set(key, img, int64(bounds.Dx()*bounds.Dy()*4))
		b.cache.Wait()
	}
	return img, nil
}

// resolve turns style icon reference into fs.FS path. References leaving
// fsys root stay invalid and fail to read.
func resolve(dir, p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	if path.IsAbs(p) {
		return p
	}
	if dir == "" {
		dir = "."
	}
	return path.Join(dir, p)
}

// FileName returns sprite file base name for pixel ratio, following Mapbox
// convention: "name" for 1, "name@2x" for 2.
func FileName(base string, ratio int) string {
	if ratio <= 1 {
		return base
	}
	return fmt.Sprintf("%s@%dx", base, ratio)
}

// Write stores sheet as "<base>.png" and "<base>.json" (with pixel ratio
// suffix when needed).
func (s *Sheet) Write(base string) error {
	name := FileName(base, s.PixelRatio)
	if err := imaging.Save(s.Image, name+".png"); err != nil {
		return fmt.Errorf("unable to save sprite image: %w", err)
	}
	data, err := json.MarshalIndent(s.Index, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode sprite index: %w", err)
	}
	if err := os.WriteFile(name+".json", data, 0644); err != nil {
		return fmt.Errorf("unable to save sprite index: %w", err)
	}
	return nil
}
