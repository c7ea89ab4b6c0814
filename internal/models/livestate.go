package models

// LiveState is the single authoritative "what is currently shown" record.
// Exactly one instance exists per session, owned by the control process;
// every mutation is rebroadcast to all attached output processes.
type LiveState struct {
	IsLive            bool   `json:"isLive"`
	PresentationID    string `json:"presentationId,omitempty"`
	PresentationPath  string `json:"presentationPath,omitempty"`
	CurrentSlideID    string `json:"currentSlideId,omitempty"`
	CurrentSlideIndex int    `json:"currentSlideIndex"`
	IsBlackout        bool   `json:"isBlackout"`
	IsClear           bool   `json:"isClear"`
}
