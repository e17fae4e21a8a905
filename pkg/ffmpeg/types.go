package ffmpeg

// VideoMetadata is what an editing session needs to know about its video
type VideoMetadata struct {
	Duration float64 `json:"duration"` // Duration in seconds
	Width    float64 `json:"width"`    // Display width in pixels, rotation applied
	Height   float64 `json:"height"`   // Display height in pixels, rotation applied
	Codec    string  `json:"codec"`    // Video codec
	Format   string  `json:"format"`   // Container format
}
