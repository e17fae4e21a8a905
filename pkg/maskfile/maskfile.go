// Package maskfile reads and writes stored mask sets and maps them between
// the editor's surface space and the video's native pixel grid.
package maskfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/killallgit/mask-editor-api/internal/models"
	"github.com/killallgit/mask-editor-api/pkg/geometry"
)

// Version is the current file layout version
const Version = 1

// Format is a serialization format
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

// FormatFromPath picks a format from a file extension
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// File is a mask set as handed to the processing side. Mask geometry is in the
// coordinate space named by Space.
type File struct {
	Version  int           `json:"version" yaml:"version"`
	VideoURL string        `json:"videoUrl,omitempty" yaml:"videoUrl,omitempty"`
	Duration float64       `json:"duration,omitempty" yaml:"duration,omitempty"`
	Space    Space         `json:"space" yaml:"space"`
	Size     geometry.Size `json:"size" yaml:"size"`
	Masks    []models.Mask `json:"masks" yaml:"masks"`
}

// Space names the pixel grid mask geometry is expressed in
type Space string

const (
	SpaceSurface Space = "surface"
	SpaceNative  Space = "native"
)

// Decode reads a file in the given format
func Decode(r io.Reader, format Format) (*File, error) {
	var f File
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&f); err != nil {
			return nil, fmt.Errorf("failed to decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&f); err != nil {
			return nil, fmt.Errorf("failed to decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if f.Version == 0 {
		f.Version = Version
	}
	if f.Space == "" {
		f.Space = SpaceSurface
	}
	return &f, nil
}

// Encode writes f in the given format
func Encode(w io.Writer, f *File, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(f)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported format %q", format)
}

// Marshal encodes f to bytes
func Marshal(f *File, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, f, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Load reads a mask file, picking the format from its extension
func Load(path string) (*File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mask file: %w", err)
	}
	defer fh.Close()
	return Decode(fh, format)
}

// Validate checks every mask against the file's duration and reports all
// violations together.
func (f *File) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(f.Masks))
	for i, m := range f.Masks {
		if err := m.Validate(f.Duration); err != nil {
			errs = append(errs, fmt.Errorf("mask %d: %w", i+1, err))
		}
		if m.ID != "" && seen[m.ID] {
			errs = append(errs, fmt.Errorf("mask %d: duplicate id %q", i+1, m.ID))
		}
		seen[m.ID] = true
	}
	return errors.Join(errs...)
}

// ToNative maps surface-space masks onto the native video grid using the
// same per-axis factor the editor's overlay was scaled by.
func (f *File) ToNative(native geometry.Size) (*File, error) {
	if f.Space == SpaceNative {
		return nil, errors.New("mask file is already in native space")
	}
	return f.rescale(native, SpaceNative)
}

// ToSurface maps native-space masks back onto a surface of the given size
func (f *File) ToSurface(surface geometry.Size) (*File, error) {
	if f.Space != SpaceNative {
		return nil, errors.New("mask file is already in surface space")
	}
	return f.rescale(surface, SpaceSurface)
}

func (f *File) rescale(to geometry.Size, space Space) (*File, error) {
	if f.Size.IsZero() {
		return nil, errors.New("mask file has no size to scale from")
	}
	if to.IsZero() {
		return nil, errors.New("target size must be positive")
	}
	sx, sy := geometry.ScaleFactors(f.Size, to)
	out := *f
	out.Space = space
	out.Size = to
	out.Masks = make([]models.Mask, len(f.Masks))
	for i, m := range f.Masks {
		out.Masks[i] = m.WithRect(geometry.Scale(m.Rect(), sx, sy))
	}
	return &out, nil
}

// ParseSize parses WIDTHxHEIGHT
func ParseSize(s string) (geometry.Size, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return geometry.Size{}, fmt.Errorf("invalid size %q, want WIDTHxHEIGHT", s)
	}
	w, errW := strconv.ParseFloat(ws, 64)
	h, errH := strconv.ParseFloat(hs, 64)
	if errW != nil || errH != nil {
		return geometry.Size{}, fmt.Errorf("invalid size %q, want WIDTHxHEIGHT", s)
	}
	size := geometry.Size{Width: w, Height: h}
	if size.IsZero() {
		return geometry.Size{}, fmt.Errorf("invalid size %q, both sides must be positive", s)
	}
	return size, nil
}
