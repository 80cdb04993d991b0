package util

import (
	"encoding/json"
	"fmt"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// VideoInfo holds the probed metadata of a lecture video.
type VideoInfo struct {
	Duration float64 `json:"duration"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Format   string  `json:"format"`
}

// GetVideoInfo probes a video file or URL with ffprobe and extracts the
// fields the verification flow needs.
func GetVideoInfo(source string) (*VideoInfo, error) {
	jsonOutput, err := ffmpeg.Probe(source)
	if err != nil {
		return nil, fmt.Errorf("probe video: %w", err)
	}

	var result struct {
		Streams []struct {
			CodecType string `json:"codec_type"`
			Width     int    `json:"width"`
			Height    int    `json:"height"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
			Format   string `json:"format_name"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(jsonOutput), &result); err != nil {
		return nil, fmt.Errorf("parse probe output: %w", err)
	}

	info := &VideoInfo{Format: result.Format.Format}
	if result.Format.Duration != "" {
		info.Duration, err = strconv.ParseFloat(result.Format.Duration, 64)
		if err != nil {
			return nil, fmt.Errorf("parse duration %q: %w", result.Format.Duration, err)
		}
	}
	for _, stream := range result.Streams {
		if stream.CodecType == "video" {
			info.Width = stream.Width
			info.Height = stream.Height
			break
		}
	}
	return info, nil
}
