package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/mask-editor-api/pkg/maskfile"
)

const surfaceMasks = `{
  "version": 1,
  "videoUrl": "https://example.com/clip.mp4",
  "duration": 60,
  "space": "surface",
  "size": {"width": 640, "height": 360},
  "masks": [
    {"id": "a", "x": 64, "y": 36, "width": 128, "height": 72, "startTime": 1, "endTime": 4, "isActive": true}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMasksValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		file    string
		wantErr bool
		wantOut string
	}{
		{name: "valid file", content: surfaceMasks, file: "masks.json", wantOut: "1 mask(s) OK"},
		{
			name:    "window past duration",
			file:    "masks.yaml",
			content: "duration: 5\nmasks:\n  - {id: a, x: 0, y: 0, width: 10, height: 10, startTime: 1, endTime: 9}\n",
			wantErr: true,
		},
		{name: "unsupported extension", content: surfaceMasks, file: "masks.txt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := writeFile(t, tt.file, tt.content)
			out, err := execute(t, "masks", "validate", "--in", in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.wantOut)
		})
	}
}

func TestMasksConvert(t *testing.T) {
	in := writeFile(t, "masks.json", surfaceMasks)
	outPath := filepath.Join(t.TempDir(), "native.yaml")

	_, err := execute(t, "masks", "convert", "--in", in, "--native", "1920x1080", "--out", outPath)
	require.NoError(t, err)

	f, err := maskfile.Load(outPath)
	require.NoError(t, err)
	assert.Equal(t, maskfile.SpaceNative, f.Space)
	require.Len(t, f.Masks, 1)
	assert.InDelta(t, 192, f.Masks[0].X, 1e-9)
	assert.InDelta(t, 108, f.Masks[0].Y, 1e-9)
	assert.InDelta(t, 384, f.Masks[0].Width, 1e-9)
	assert.InDelta(t, 216, f.Masks[0].Height, 1e-9)
	assert.Equal(t, 1.0, f.Masks[0].StartTime)
}

func TestMasksConvert_SurfaceOverrideToStdout(t *testing.T) {
	in := writeFile(t, "masks.json", surfaceMasks)

	out, err := execute(t, "masks", "convert", "--in", in, "--surface", "1280x720", "--native", "1920x1080", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "space: native")
	assert.Contains(t, out, "x: 96")
}

func TestMasksConvert_Errors(t *testing.T) {
	in := writeFile(t, "masks.json", surfaceMasks)

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing native", args: []string{"masks", "convert", "--in", in}},
		{name: "bad native size", args: []string{"masks", "convert", "--in", in, "--native", "1920by1080"}},
		{name: "bad format", args: []string{"masks", "convert", "--in", in, "--native", "1920x1080", "--format", "xml"}},
		{name: "missing file", args: []string{"masks", "convert", "--in", "nope.json", "--native", "1920x1080"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}
