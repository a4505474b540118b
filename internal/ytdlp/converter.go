package ytdlp

import (
	"encoding/json"
	"fmt"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"github.com/ytmgrab/ytmgrab/internal/model"
)

// Converter turns downloaded audio into the requested output format by
// shelling out to ffmpeg.
type Converter struct {
	ffmpegPath string
}

// NewConverter creates a Converter. A non-empty ffmpegPath overrides the
// ffmpeg binary looked up on PATH.
func NewConverter(ffmpegPath string) *Converter {
	return &Converter{ffmpegPath: ffmpegPath}
}

// Convert transcodes src into dst according to format. The source container
// is probed by ffmpeg, so src's file extension does not matter.
//
// For M4A targets the source is probed first: when its audio stream is
// already AAC the stream is copied into the new container instead of being
// re-encoded.
func (c *Converter) Convert(src, dst string, format model.Format) error {
	args := ffmpeg.KwArgs{
		"map":      "0:a",
		"loglevel": "error",
	}
	switch format {
	case model.FormatMP3:
		args["acodec"] = "libmp3lame"
		args["q:a"] = 0
	case model.FormatFLAC:
		args["acodec"] = "flac"
	default:
		if c.sourceAudioCodec(src) == "aac" {
			args["acodec"] = "copy"
		} else {
			args["acodec"] = "aac"
			args["b:a"] = "256k"
		}
	}

	cmd := ffmpeg.Input(src).
		Output(dst, args).
		OverWriteOutput().
		ErrorToStdOut()
	if c.ffmpegPath != "" {
		cmd.SetFfmpegPath(c.ffmpegPath)
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("converting to %s: %w", format, err)
	}
	return nil
}

// sourceAudioCodec probes src and returns its audio codec name, or "" when
// probing fails. A failed probe is not an error here: Convert falls back to
// re-encoding and lets ffmpeg report anything genuinely wrong with src.
func (c *Converter) sourceAudioCodec(src string) string {
	data, err := ffmpeg.Probe(src)
	if err != nil {
		return ""
	}
	return audioCodecFromProbe(data)
}

// audioCodecFromProbe extracts the first audio stream's codec name from
// ffprobe JSON output.
func audioCodecFromProbe(probeJSON string) string {
	var probe struct {
		Streams []struct {
			CodecType string `json:"codec_type"`
			CodecName string `json:"codec_name"`
		} `json:"streams"`
	}
	if err := json.Unmarshal([]byte(probeJSON), &probe); err != nil {
		return ""
	}
	for _, stream := range probe.Streams {
		if stream.CodecType == "audio" {
			return stream.CodecName
		}
	}
	return ""
}
