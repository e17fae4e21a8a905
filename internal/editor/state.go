package editor

import (
	"github.com/killallgit/mask-editor-api/internal/models"
	"github.com/killallgit/mask-editor-api/pkg/geometry"
)

// MaskView is a mask as the control panel lists it
type MaskView struct {
	models.Mask
	Index    int    `json:"index"`
	Label    string `json:"label"`
	Visible  bool   `json:"visible"`
	Selected bool   `json:"selected"`
	Start    string `json:"startLabel"`
	End      string `json:"endLabel"`
}

// State is a snapshot of the editor for clients
type State struct {
	VideoURL    string        `json:"videoUrl"`
	CurrentTime float64       `json:"currentTime"`
	Duration    float64       `json:"duration"`
	Surface     geometry.Size `json:"surface"`
	Overlay     geometry.Rect `json:"overlay"`
	Native      geometry.Size `json:"native"`
	Mode        ModeKind      `json:"mode"`
	SelectedID  string        `json:"selectedId,omitempty"`
	Masks       []MaskView    `json:"masks"`
	Draft       *models.Mask  `json:"draft,omitempty"`
}

// State builds a snapshot of the editor
func (e *Editor) State() State {
	s := State{
		VideoURL:    e.videoURL,
		CurrentTime: e.currentTime,
		Duration:    e.duration,
		Surface:     e.surface,
		Overlay:     e.overlay,
		Native:      e.native,
		Mode:        e.mode.Kind(),
		SelectedID:  e.selectedID,
		Masks:       make([]MaskView, 0, len(e.masks)),
	}
	for i, m := range e.masks {
		s.Masks = append(s.Masks, MaskView{
			Mask:     m,
			Index:    i + 1,
			Label:    Label(i + 1),
			Visible:  m.VisibleAt(e.currentTime),
			Selected: m.ID == e.selectedID,
			Start:    FormatTime(m.StartTime),
			End:      FormatTime(m.EndTime),
		})
	}
	if d, ok := e.Draft(); ok {
		s.Draft = &d
	}
	return s
}
