// Package video turns rendered frame sequences into preview movies by
// piping raw RGB over stdin to ffmpeg.
package video

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ivolkov/animframe/internal/compose"
)

// Encoder produces a movie file from an ordered frame sequence.
type Encoder interface {
	Encode(ctx context.Context, frames []compose.Frame, fps int, outPath string) error
}

// FFmpegEncoder shells out to ffmpeg. Zero values pick the best available
// H.264 codec and a codec-appropriate default quality.
type FFmpegEncoder struct {
	Codec   string
	Quality int
}

func (e *FFmpegEncoder) Encode(ctx context.Context, frames []compose.Frame, fps int, outPath string) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames to encode")
	}
	if fps < 1 {
		fps = 1
	}

	codec := e.Codec
	if codec == "" {
		codec = BestH264Encoder()
	}
	quality := e.Quality
	if quality == 0 {
		quality = defaultQuality(codec)
	}

	w, h := frames[0].Width, frames[0].Height
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgb24",
		"-video_size", fmt.Sprintf("%dx%d", w, h),
		"-framerate", fmt.Sprintf("%d", fps),
		"-i", "-",
		"-pix_fmt", "yuv420p",
		"-c:v", codec,
	}
	args = append(args, qualityArgs(codec, quality)...)
	args = append(args, outPath)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var out strings.Builder
	cmd.Stdout = &out
	cmd.Stderr = &out

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start error: %w", err)
	}

	for i := range frames {
		if frames[i].Width != w || frames[i].Height != h {
			stdin.Close()
			cmd.Wait()
			return fmt.Errorf("frame %d is %dx%d, expected %dx%d",
				i, frames[i].Width, frames[i].Height, w, h)
		}
		if _, err := stdin.Write(frames[i].RGBBytes()); err != nil {
			stdin.Close()
			cmd.Wait()
			return fmt.Errorf("write frame %d: %w", i, err)
		}
	}
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w\nlog: %s", err, out.String())
	}
	return nil
}

func qualityArgs(codec string, quality int) []string {
	switch codec {
	case "h264_videotoolbox":
		// VideoToolbox builds vary in -q:v support; a bitrate is reliable.
		return []string{"-b:v", fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default: // libx264
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}

func defaultQuality(codec string) int {
	switch codec {
	case "h264_videotoolbox":
		return 75
	case "h264_nvenc":
		return 28
	default:
		return 23
	}
}

// BestH264Encoder probes the local ffmpeg for hardware H.264 encoders and
// falls back to libx264.
func BestH264Encoder() string {
	candidates := []string{"h264_videotoolbox", "h264_nvenc"}

	out, err := exec.Command("ffmpeg", "-encoders").CombinedOutput()
	if err != nil {
		return "libx264"
	}
	for _, c := range candidates {
		if strings.Contains(string(out), c) {
			return c
		}
	}
	return "libx264"
}
