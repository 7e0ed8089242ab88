package util

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ImageInfo 图片基本信息
type ImageInfo struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Codec  string `json:"codec"`
}

// GetImageInfo probes an image with ffprobe.
func GetImageInfo(path string) (*ImageInfo, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("image not found: %v", err)
	}

	out, err := ffmpeg.Probe(path)
	if err != nil {
		return nil, fmt.Errorf("probe image: %v", err)
	}

	var result struct {
		Streams []struct {
			CodecName string `json:"codec_name"`
			Width     int    `json:"width"`
			Height    int    `json:"height"`
		} `json:"streams"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		return nil, fmt.Errorf("parse probe output: %v", err)
	}
	if len(result.Streams) == 0 {
		return nil, fmt.Errorf("no image stream in %s", path)
	}

	s := result.Streams[0]
	return &ImageInfo{Width: s.Width, Height: s.Height, Codec: s.CodecName}, nil
}

// GenerateThumbnail scales an image down to the given width, keeping aspect ratio.
func GenerateThumbnail(srcPath, thumbnailPath string, width int) error {
	if err := os.MkdirAll(filepath.Dir(thumbnailPath), 0755); err != nil {
		return fmt.Errorf("create thumbnail dir: %v", err)
	}

	return ffmpeg.Input(srcPath).
		Output(thumbnailPath, ffmpeg.KwArgs{
			"vf":      fmt.Sprintf("scale=%d:-1", width),
			"vframes": "1",
		}).
		OverWriteOutput().
		Run()
}
