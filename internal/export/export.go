// Package export renders overworld maps, region windows, and
// multi-chunk top-down views as RGB images for the service layer to
// encode. A 100 megapixel sanity cap guards every export.
package export

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"darktower-backend/internal/chunkcache"
	"darktower-backend/internal/errors"
	"darktower-backend/internal/grid"
	"darktower-backend/internal/localgen"
	"darktower-backend/internal/overworld"
)

// MaxPixels is the export sanity cap.
const MaxPixels = 100_000_000

// Layer selects which overworld field a region export renders.
type Layer uint8

const (
	LayerBiome Layer = iota
	LayerHeight
	LayerTemperature
	LayerMoisture
)

// Options tune a region export.
type Options struct {
	Layer Layer
	// Scale is the output pixels per overworld tile (default 1).
	Scale int
}

func checkSize(w, h int) error {
	if w <= 0 || h <= 0 {
		return errors.NewInvalidInput("export dimensions %dx%d", w, h)
	}
	if w*h > MaxPixels {
		return errors.Wrap(errors.ErrImageTooLarge, "export exceeds the pixel cap", nil)
	}
	return nil
}

// Overworld renders the whole overworld biome map at one pixel per
// tile.
func Overworld(world *overworld.WorldData) (*image.RGBA, error) {
	return Region(world, 0, 0, world.Width, world.Height, Options{Layer: LayerBiome, Scale: 1})
}

// Region renders a window of the overworld. The window wraps east-west
// and clamps at the poles, like every other reader.
func Region(world *overworld.WorldData, x0, y0, w, h int, opts Options) (*image.RGBA, error) {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	outW, outH := w*scale, h*scale
	if err := checkSize(outW, outH); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, outW, outH))
	for ty := 0; ty < h; ty++ {
		for tx := 0; tx < w; tx++ {
			c := tileColor(world, x0+tx, y0+ty, opts.Layer)
			for py := 0; py < scale; py++ {
				for px := 0; px < scale; px++ {
					img.SetRGBA(tx*scale+px, ty*scale+py, c)
				}
			}
		}
	}
	return img, nil
}

// Chunks renders a chunks_w x chunks_h block of local chunks top-down
// at one pixel per local tile, generating through the cache.
func Chunks(cache *chunkcache.Cache, world *overworld.WorldData, src localgen.SiteSource, x0, y0, chunksW, chunksH int) (*image.RGBA, error) {
	outW := chunksW * grid.LocalSize
	outH := chunksH * grid.LocalSize
	if err := checkSize(outW, outH); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, outW, outH))
	for cy := 0; cy < chunksH; cy++ {
		for cx := 0; cx < chunksW; cx++ {
			chunk := cache.GetOrGenerate(world, src, x0+cx, y0+cy)
			blitChunk(img, chunk, cx*grid.LocalSize, cy*grid.LocalSize)
		}
	}
	return img, nil
}

// EncodePNG writes an image as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return errors.Wrap(errors.ErrInternalServer, "failed to encode png", err)
	}
	return nil
}

func blitChunk(img *image.RGBA, chunk *localgen.LocalChunk, ox, oy int) {
	for ly := 0; ly < grid.LocalSize; ly++ {
		for lx := 0; lx < grid.LocalSize; lx++ {
			z := chunk.LocalSurface(lx, ly)
			// Water columns read the tile above the bed.
			for zz := z + 1; zz <= localgen.ZMax; zz++ {
				if chunk.Get(lx, ly, zz).Terrain.IsWater() {
					z = zz
				}
			}
			img.SetRGBA(ox+lx, oy+ly, localTileColor(chunk.Get(lx, ly, z)))
		}
	}
}

func tileColor(world *overworld.WorldData, x, y int, layer Layer) color.RGBA {
	info := world.TileAt(x, y)
	switch layer {
	case LayerHeight:
		return rampColor(info.Elevation, -4000, 4000)
	case LayerTemperature:
		return rampColor(info.Temperature, -30, 40)
	case LayerMoisture:
		return rampColor(info.Moisture, 0, 1)
	default:
		return biomeColor(info.Biome)
	}
}

// rampColor maps a value onto a blue-green-red ramp.
func rampColor(v, lo, hi float64) color.RGBA {
	t := (v - lo) / (hi - lo)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	switch {
	case t < 0.5:
		u := t * 2
		return color.RGBA{R: uint8(40 * u), G: uint8(90 + 120*u), B: uint8(200 * (1 - u)), A: 255}
	default:
		u := (t - 0.5) * 2
		return color.RGBA{R: uint8(40 + 200*u), G: uint8(210 * (1 - u)), B: 30, A: 255}
	}
}

// biomeColor is a family-based palette with water depth shading.
func biomeColor(b overworld.Biome) color.RGBA {
	switch b {
	case overworld.BiomeDeepOcean:
		return color.RGBA{R: 12, G: 30, B: 90, A: 255}
	case overworld.BiomeOcean, overworld.BiomeSea:
		return color.RGBA{R: 20, G: 50, B: 130, A: 255}
	case overworld.BiomeCoastalWaters, overworld.BiomeLake, overworld.BiomeRiver:
		return color.RGBA{R: 50, G: 100, B: 180, A: 255}
	case overworld.BiomeFrozenOcean, overworld.BiomeFrozenLake:
		return color.RGBA{R: 180, G: 210, B: 230, A: 255}
	}
	switch b.Family() {
	case overworld.FamilyPolar:
		return color.RGBA{R: 230, G: 238, B: 242, A: 255}
	case overworld.FamilyBoreal:
		return color.RGBA{R: 40, G: 90, B: 60, A: 255}
	case overworld.FamilyTemperateForest:
		return color.RGBA{R: 34, G: 120, B: 44, A: 255}
	case overworld.FamilyOpen:
		return color.RGBA{R: 120, G: 170, B: 70, A: 255}
	case overworld.FamilyTropical:
		return color.RGBA{R: 20, G: 140, B: 50, A: 255}
	case overworld.FamilyArid:
		return color.RGBA{R: 210, G: 185, B: 120, A: 255}
	case overworld.FamilyWetland:
		return color.RGBA{R: 70, G: 110, B: 80, A: 255}
	case overworld.FamilyHighland:
		return color.RGBA{R: 130, G: 120, B: 110, A: 255}
	case overworld.FamilyVolcanic:
		return color.RGBA{R: 80, G: 40, B: 40, A: 255}
	case overworld.FamilyCoast:
		return color.RGBA{R: 220, G: 205, B: 160, A: 255}
	default:
		return color.RGBA{R: 160, G: 100, B: 180, A: 255}
	}
}

func localTileColor(t localgen.LocalTile) color.RGBA {
	switch {
	case t.Terrain.IsWater():
		return color.RGBA{R: 50, G: 100, B: 190, A: 255}
	case t.Terrain.Kind == localgen.TerrainMagma:
		return color.RGBA{R: 230, G: 80, B: 20, A: 255}
	case t.Terrain.IsConstructed():
		return color.RGBA{R: 150, G: 140, B: 130, A: 255}
	case t.Feature.Kind == localgen.FeatTree:
		return color.RGBA{R: 25, G: 100, B: 35, A: 255}
	}
	switch t.Material {
	case localgen.MatGrass:
		return color.RGBA{R: 90, G: 150, B: 60, A: 255}
	case localgen.MatSand:
		return color.RGBA{R: 215, G: 195, B: 135, A: 255}
	case localgen.MatSnow, localgen.MatIce:
		return color.RGBA{R: 235, G: 240, B: 245, A: 255}
	case localgen.MatMud:
		return color.RGBA{R: 110, G: 90, B: 60, A: 255}
	case localgen.MatStone:
		return color.RGBA{R: 140, G: 135, B: 130, A: 255}
	default:
		return color.RGBA{R: 100, G: 90, B: 70, A: 255}
	}
}
