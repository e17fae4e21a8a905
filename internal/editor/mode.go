package editor

import (
	"github.com/killallgit/mask-editor-api/internal/models"
	"github.com/killallgit/mask-editor-api/pkg/geometry"
)

// ModeKind names the interaction mode
type ModeKind string

const (
	ModeNone     ModeKind = "none"
	ModeDrawing  ModeKind = "drawing"
	ModeMoving   ModeKind = "moving"
	ModeResizing ModeKind = "resizing"
)

// Mode is the interaction state. Exactly one variant is live at a time.
type Mode interface {
	Kind() ModeKind
}

// Idle means no gesture is in progress
type Idle struct{}

// Drawing holds a candidate mask being dragged out from Anchor
type Drawing struct {
	Anchor    geometry.Point
	Candidate models.Mask
}

// Moving holds a drag of an existing mask
type Moving struct {
	MaskID    string
	DragStart geometry.Point
	Snapshot  models.Mask
}

// Resizing holds a corner drag of an existing mask
type Resizing struct {
	MaskID    string
	Corner    geometry.Corner
	DragStart geometry.Point
	Snapshot  models.Mask
}

func (Idle) Kind() ModeKind     { return ModeNone }
func (Drawing) Kind() ModeKind  { return ModeDrawing }
func (Moving) Kind() ModeKind   { return ModeMoving }
func (Resizing) Kind() ModeKind { return ModeResizing }
