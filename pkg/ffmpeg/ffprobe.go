package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"os/exec"
	"strconv"
	"strings"
)

// ffprobeOutput represents the JSON structure returned by ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration   string `json:"duration"`
		FormatName string `json:"format_name"`
	} `json:"format"`
	Streams []struct {
		CodecType string            `json:"codec_type"`
		CodecName string            `json:"codec_name"`
		Width     int               `json:"width"`
		Height    int               `json:"height"`
		Duration  string            `json:"duration"`
		Tags      map[string]string `json:"tags"`
		SideData  []sideData        `json:"side_data_list"`
	} `json:"streams"`
}

type sideData struct {
	Rotation float64 `json:"rotation"`
}

// Probe extracts duration and display size from a remote video URL
func (f *FFmpeg) Probe(ctx context.Context, input string) (*VideoMetadata, error) {
	if err := ValidateInput(input); err != nil {
		return nil, err
	}

	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	args := probeArgs(input)
	cmd := exec.CommandContext(ctx, f.ffprobePath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, NewProcessingError("metadata_extraction", input, err, stderr.String())
	}

	return parseMetadata(stdout.Bytes(), input)
}

// ValidateInput accepts only absolute http and https URLs with a host
func ValidateInput(input string) error {
	if input == "" || strings.HasPrefix(input, "-") {
		return fmt.Errorf("%w: %q", ErrUnsupportedInput, input)
	}
	u, err := url.Parse(input)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedInput, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return fmt.Errorf("%w: scheme %q", ErrUnsupportedInput, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrUnsupportedInput)
	}
	return nil
}

// probeArgs builds the ffprobe command line. The protocol whitelist also
// covers nested playlist entries.
func probeArgs(input string) []string {
	return []string{
		"-v", "quiet",
		"-protocol_whitelist", "http,https,tcp,tls",
		"-show_format",
		"-show_streams",
		"-select_streams", "v:0", // Select first video stream
		"-of", "json",
		"-i", input,
	}
}

// parseMetadata converts ffprobe JSON output to VideoMetadata
func parseMetadata(data []byte, input string) (*VideoMetadata, error) {
	var output ffprobeOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, NewProcessingError("metadata_parsing", input, err, "")
	}

	metadata := &VideoMetadata{Format: output.Format.FormatName}
	if output.Format.Duration != "" {
		if d, err := strconv.ParseFloat(output.Format.Duration, 64); err == nil {
			metadata.Duration = d
		}
	}

	for _, stream := range output.Streams {
		if stream.CodecType != "video" {
			continue
		}
		metadata.Codec = stream.CodecName
		metadata.Width = float64(stream.Width)
		metadata.Height = float64(stream.Height)

		// Use stream duration if format duration is not available
		if metadata.Duration == 0 && stream.Duration != "" {
			if d, err := strconv.ParseFloat(stream.Duration, 64); err == nil {
				metadata.Duration = d
			}
		}

		// Portrait phone footage is stored landscape with a rotation flag
		if quarterTurn(rotation(stream.Tags, stream.SideData)) {
			metadata.Width, metadata.Height = metadata.Height, metadata.Width
		}
		break
	}

	if metadata.Width <= 0 || metadata.Height <= 0 {
		return nil, NewProcessingError("metadata_validation", input, ErrNoVideoStream, "")
	}
	if metadata.Duration < 0 || math.IsNaN(metadata.Duration) {
		return nil, NewProcessingError("metadata_validation", input,
			fmt.Errorf("invalid duration %v", metadata.Duration), "")
	}

	return metadata, nil
}

func rotation(tags map[string]string, side []sideData) float64 {
	for _, sd := range side {
		if sd.Rotation != 0 {
			return sd.Rotation
		}
	}
	if r, err := strconv.ParseFloat(tags["rotate"], 64); err == nil {
		return r
	}
	return 0
}

func quarterTurn(deg float64) bool {
	d := math.Mod(math.Abs(deg), 180)
	return d == 90
}
