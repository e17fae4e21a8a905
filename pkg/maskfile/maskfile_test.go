package maskfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/mask-editor-api/internal/models"
	"github.com/killallgit/mask-editor-api/pkg/geometry"
)

const yamlFixture = `
videoUrl: https://example.com/v.mp4
duration: 30
size:
  width: 640
  height: 360
masks:
  - id: a
    x: 64
    y: 36
    width: 128
    height: 72
    startTime: 1
    endTime: 4
    isActive: true
`

func TestDecode_YAML(t *testing.T) {
	f, err := Decode(strings.NewReader(yamlFixture), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, Version, f.Version)
	assert.Equal(t, SpaceSurface, f.Space)
	assert.Equal(t, geometry.Size{Width: 640, Height: 360}, f.Size)
	require.Len(t, f.Masks, 1)
	assert.Equal(t, "a", f.Masks[0].ID)
	assert.Equal(t, 72.0, f.Masks[0].Height)
	assert.True(t, f.Masks[0].IsActive)
	assert.NoError(t, f.Validate())
}

func TestConvertBetweenFormats(t *testing.T) {
	f, err := Decode(strings.NewReader(yamlFixture), FormatYAML)
	require.NoError(t, err)

	data, err := Marshal(f, FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"startTime": 1`)

	back, err := Decode(strings.NewReader(string(data)), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, f, back)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "masks.yml")
	require.NoError(t, os.WriteFile(path, []byte(yamlFixture), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Masks, 1)

	_, err = Load(filepath.Join(dir, "masks.txt"))
	assert.ErrorContains(t, err, "unsupported format")
}

func TestFile_Validate(t *testing.T) {
	f := &File{
		Duration: 10,
		Masks: []models.Mask{
			{ID: "a", Width: 10, Height: 10, StartTime: 0, EndTime: 1},
			{ID: "a", Width: 10, Height: 10, StartTime: 0, EndTime: 1},
			{ID: "b", Width: 0, Height: 10, StartTime: 0, EndTime: 1},
			{ID: "c", Width: 10, Height: 10, StartTime: 5, EndTime: 12},
		},
	}

	err := f.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, `mask 2: duplicate id "a"`)
	assert.Contains(t, msg, "mask 3: mask size")
	assert.Contains(t, msg, "mask 4: mask endTime")
	assert.NotContains(t, msg, "mask 1:")
}

func TestFile_ToNative(t *testing.T) {
	f, err := Decode(strings.NewReader(yamlFixture), FormatYAML)
	require.NoError(t, err)

	native, err := f.ToNative(geometry.Size{Width: 1920, Height: 1080})
	require.NoError(t, err)
	assert.Equal(t, SpaceNative, native.Space)
	assert.InDelta(t, 192, native.Masks[0].X, 1e-9)
	assert.InDelta(t, 108, native.Masks[0].Y, 1e-9)
	assert.InDelta(t, 384, native.Masks[0].Width, 1e-9)
	assert.InDelta(t, 216, native.Masks[0].Height, 1e-9)
	assert.Equal(t, 1.0, native.Masks[0].StartTime)
	// source untouched
	assert.Equal(t, 64.0, f.Masks[0].X)

	_, err = native.ToNative(geometry.Size{Width: 1, Height: 1})
	assert.Error(t, err)

	surface, err := native.ToSurface(geometry.Size{Width: 640, Height: 360})
	require.NoError(t, err)
	assert.InDelta(t, 64, surface.Masks[0].X, 1e-9)

	_, err = (&File{Masks: f.Masks}).ToNative(geometry.Size{Width: 1920, Height: 1080})
	assert.ErrorContains(t, err, "no size")
}

func TestParseSize(t *testing.T) {
	s, err := ParseSize("1920x1080")
	require.NoError(t, err)
	assert.Equal(t, geometry.Size{Width: 1920, Height: 1080}, s)

	s, err = ParseSize("640.5X360")
	require.NoError(t, err)
	assert.Equal(t, 640.5, s.Width)

	for _, bad := range []string{"", "1920", "0x10", "axb"} {
		_, err := ParseSize(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, ".yml": FormatYAML, "YAML": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("toml")
	assert.Error(t, err)
}
