package domain

// Frame is one entry of the presentation log.
// Only Activation changes after the frame is appended: it is cleared once fired.
type Frame struct {
	ID         int64          `json:"id"`
	Type       string         `json:"type"`
	Payload    map[string]any `json:"payload,omitempty"`
	Activation string         `json:"activation,omitempty"`
}

// PresentationState is the externally visible projection state.
type PresentationState struct {
	Frames  []Frame `json:"frames"`
	Current int     `json:"current"`
}

// CurrentFrame returns the frame under the pointer, if any.
func (s PresentationState) CurrentFrame() (Frame, bool) {
	if s.Current < 0 || s.Current >= len(s.Frames) {
		return Frame{}, false
	}
	return s.Frames[s.Current], true
}
