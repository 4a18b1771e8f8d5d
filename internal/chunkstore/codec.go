package chunkstore

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"darktower-backend/internal/geology"
	"darktower-backend/internal/grid"
	"darktower-backend/internal/localgen"
	"darktower-backend/internal/overworld"
)

// On-disk layout: fixed header, then L*L*zcount tile records, then the
// geology params. All integers little-endian.
const (
	codecMagic   = 0x44545748 // "DTWH"
	codecVersion = 1
)

type header struct {
	Magic   uint32
	Version uint16
	_       uint16
	Seed    uint64
	WX      int32
	WY      int32
	ZMin    int16
	ZMax    int16
	L       uint16
	Surface int16
	Flags   uint16
	_       uint16
}

const (
	flagGenerated = 1 << 0
	flagValid     = 1 << 1
)

// Encode serialises a chunk for the world seed.
func Encode(seed uint64, c *localgen.LocalChunk) []byte {
	var buf bytes.Buffer

	h := header{
		Magic:   codecMagic,
		Version: codecVersion,
		Seed:    seed,
		WX:      int32(c.WorldX),
		WY:      int32(c.WorldY),
		ZMin:    int16(grid.ZMin),
		ZMax:    int16(grid.ZMax),
		L:       uint16(localgen.LocalSize),
		Surface: int16(c.SurfaceZ),
	}
	if c.Generated {
		h.Flags |= flagGenerated
	}
	if c.Valid {
		h.Flags |= flagValid
	}
	_ = binary.Write(&buf, binary.LittleEndian, h)

	for z := localgen.ZMin; z <= localgen.ZMax; z++ {
		for y := 0; y < localgen.LocalSize; y++ {
			for x := 0; x < localgen.LocalSize; x++ {
				writeTile(&buf, c.Get(x, y, z))
			}
		}
	}

	writeGeology(&buf, &c.Geology)
	return buf.Bytes()
}

// Decode reconstructs a chunk. The stored seed must match; a chunk saved
// for another world is treated as absent rather than trusted.
func Decode(seed uint64, data []byte) (*localgen.LocalChunk, error) {
	r := bytes.NewReader(data)

	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("chunk header: %w", err)
	}
	if h.Magic != codecMagic {
		return nil, fmt.Errorf("bad chunk magic %#x", h.Magic)
	}
	if h.Version != codecVersion {
		return nil, fmt.Errorf("unsupported chunk version %d", h.Version)
	}
	if h.Seed != seed {
		return nil, fmt.Errorf("chunk belongs to seed %d, want %d", h.Seed, seed)
	}
	if int(h.L) != localgen.LocalSize || int(h.ZMin) != grid.ZMin || int(h.ZMax) != grid.ZMax {
		return nil, fmt.Errorf("chunk dimensions %dx[%d,%d] do not match build", h.L, h.ZMin, h.ZMax)
	}

	c := localgen.NewChunk(int(h.WX), int(h.WY), int(h.Surface))
	c.Generated = h.Flags&flagGenerated != 0
	c.Valid = h.Flags&flagValid != 0

	for z := localgen.ZMin; z <= localgen.ZMax; z++ {
		for y := 0; y < localgen.LocalSize; y++ {
			for x := 0; x < localgen.LocalSize; x++ {
				tile, err := readTile(r)
				if err != nil {
					return nil, fmt.Errorf("tile (%d,%d,%d): %w", x, y, z, err)
				}
				c.Set(x, y, z, tile)
			}
		}
	}

	if err := readGeology(r, &c.Geology); err != nil {
		return nil, fmt.Errorf("geology params: %w", err)
	}
	return c, nil
}

func writeTile(buf *bytes.Buffer, t localgen.LocalTile) {
	var flags uint8
	if t.Visible {
		flags |= 1
	}
	if t.Explored {
		flags |= 2
	}
	rec := [14]byte{
		uint8(t.Terrain.Kind),
		uint8(t.Terrain.Soil),
		uint8(t.Terrain.Stone),
		uint8(t.Terrain.Mat),
		uint8(t.Feature.Kind),
		t.Feature.Arg,
		uint8(t.Material),
		t.Light,
		flags,
	}
	binary.LittleEndian.PutUint32(rec[9:13], math.Float32bits(t.Temperature))
	buf.Write(rec[:])
}

func readTile(r *bytes.Reader) (localgen.LocalTile, error) {
	var rec [14]byte
	if _, err := io.ReadFull(r, rec[:]); err != nil {
		return localgen.LocalTile{}, err
	}
	t := localgen.LocalTile{
		Terrain: localgen.Terrain{
			Kind:  localgen.TerrainKind(rec[0]),
			Soil:  geology.SoilKind(rec[1]),
			Stone: geology.StoneType(rec[2]),
			Mat:   localgen.Material(rec[3]),
		},
		Feature:  localgen.Feature{Kind: localgen.FeatureKind(rec[4]), Arg: rec[5]},
		Material: localgen.Material(rec[6]),
		Light:    rec[7],
		Visible:  rec[8]&1 != 0,
		Explored: rec[8]&2 != 0,
	}
	t.Temperature = math.Float32frombits(binary.LittleEndian.Uint32(rec[9:13]))
	return t, nil
}

type geologyRecord struct {
	SurfaceZ       int16
	Biome          uint8
	IsVolcanic     uint8
	Temperature    float64
	Moisture       float64
	Stress         float64
	WaterBodyType  uint8
	SoilDepth      uint8
	Soil           uint8
	PrimaryStone   uint8
	SecondaryStone uint8
	Caverns        uint8
	HasMagma       uint8
	HasAquifer     uint8
	AquiferZ       int16
	_              [6]byte
}

func writeGeology(buf *bytes.Buffer, g *geology.Params) {
	rec := geologyRecord{
		SurfaceZ:       int16(g.SurfaceZ),
		Biome:          uint8(g.Biome),
		IsVolcanic:     boolByte(g.IsVolcanic),
		Temperature:    g.Temperature,
		Moisture:       g.Moisture,
		Stress:         g.Stress,
		WaterBodyType:  uint8(g.WaterBodyType),
		SoilDepth:      uint8(g.SoilDepth),
		Soil:           uint8(g.Soil),
		PrimaryStone:   uint8(g.PrimaryStone),
		SecondaryStone: uint8(g.SecondaryStone),
		HasMagma:       boolByte(g.HasMagma),
		HasAquifer:     boolByte(g.HasAquifer),
		AquiferZ:       int16(g.AquiferZ),
	}
	for i, present := range g.CavernPresence {
		if present {
			rec.Caverns |= 1 << i
		}
	}
	_ = binary.Write(buf, binary.LittleEndian, rec)
}

func readGeology(r *bytes.Reader, g *geology.Params) error {
	var rec geologyRecord
	if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
		return err
	}
	*g = geology.Params{
		SurfaceZ:       int(rec.SurfaceZ),
		Biome:          overworldBiome(rec.Biome),
		Temperature:    rec.Temperature,
		Moisture:       rec.Moisture,
		Stress:         rec.Stress,
		IsVolcanic:     rec.IsVolcanic != 0,
		WaterBodyType:  waterBodyType(rec.WaterBodyType),
		SoilDepth:      int(rec.SoilDepth),
		Soil:           geology.SoilKind(rec.Soil),
		PrimaryStone:   geology.StoneType(rec.PrimaryStone),
		SecondaryStone: geology.StoneType(rec.SecondaryStone),
		HasMagma:       rec.HasMagma != 0,
		HasAquifer:     rec.HasAquifer != 0,
		AquiferZ:       int(rec.AquiferZ),
	}
	for i := 0; i < 3; i++ {
		g.CavernPresence[i] = rec.Caverns&(1<<i) != 0
	}
	return nil
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func overworldBiome(b uint8) overworld.Biome { return overworld.Biome(b) }

func waterBodyType(b uint8) overworld.WaterBodyType { return overworld.WaterBodyType(b) }
