package export

import (
	"bytes"
	stdErrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darktower-backend/internal/chunkcache"
	"darktower-backend/internal/errors"
	"darktower-backend/internal/grid"
	"darktower-backend/internal/overworld"
)

func testWorld(t *testing.T) *overworld.WorldData {
	t.Helper()
	return overworld.Generate(64, 32, 42)
}

func TestOverworldExportDimensions(t *testing.T) {
	w := testWorld(t)

	img, err := Overworld(w)
	require.NoError(t, err)

	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 32, img.Bounds().Dy())
}

func TestRegionExportScales(t *testing.T) {
	w := testWorld(t)

	img, err := Region(w, 10, 5, 8, 4, Options{Layer: LayerHeight, Scale: 4})
	require.NoError(t, err)

	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())
}

func TestPixelCapEnforced(t *testing.T) {
	w := testWorld(t)

	_, err := Region(w, 0, 0, 20000, 20000, Options{})
	require.Error(t, err)
	assert.True(t, stdErrors.Is(err, errors.ErrImageTooLarge))
}

func TestChunksExport(t *testing.T) {
	w := testWorld(t)
	cache := chunkcache.New(8)

	img, err := Chunks(cache, w, nil, 10, 10, 2, 1)
	require.NoError(t, err)

	assert.Equal(t, 2*grid.LocalSize, img.Bounds().Dx())
	assert.Equal(t, grid.LocalSize, img.Bounds().Dy())
}

func TestEncodePNG(t *testing.T) {
	w := testWorld(t)
	img, err := Overworld(w)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, img))
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, buf.Bytes()[:4])
}
