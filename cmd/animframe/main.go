package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ivolkov/animframe/internal/anim"
	"github.com/ivolkov/animframe/internal/compose"
	"github.com/ivolkov/animframe/internal/config"
	"github.com/ivolkov/animframe/internal/overlay"
	"github.com/ivolkov/animframe/internal/source"
	"github.com/ivolkov/animframe/internal/system"
	"github.com/ivolkov/animframe/internal/video"
)

var buildVersion = "dev"

func main() {
	system.InitResourceLimits()

	inputPtr := flag.String("input", "", "Animation description file (.json, .yaml)")
	outDirPtr := flag.String("out-dir", "frames", "Directory for PNG frame/mask pairs")
	videoPtr := flag.String("video", "", "Optional MP4 preview path (skips PNG export)")
	startPtr := flag.Int("start", 0, "First frame index (inclusive)")
	endPtr := flag.Int("end", -1, "End frame index (exclusive, -1 = through total_frames)")
	workersPtr := flag.Int("workers", 0, "Parallel frame workers (0 = auto from cores and memory)")
	dpiPtr := flag.Int("dpi", 150, "Rasterization DPI for PDF layer sources")
	qrPtr := flag.Bool("timecode-qr", false, "Stamp a frame-index QR code on every frame")
	encoderPtr := flag.String("encoder", "", "Video encoder (default: best available H.264)")
	qualityPtr := flag.Int("quality", 0, "Video quality (0 = encoder default)")
	statsPtr := flag.Bool("stats", false, "Print a performance report")

	flag.Parse()

	if *inputPtr == "" {
		log.Fatal("[-] -input is required")
	}

	cfg := &config.Config{
		InputPath:    *inputPtr,
		OutputDir:    *outDirPtr,
		OutputVideo:  *videoPtr,
		StartFrame:   *startPtr,
		EndFrame:     *endPtr,
		Workers:      *workersPtr,
		DPI:          *dpiPtr,
		TimecodeQR:   *qrPtr,
		VideoEncoder: *encoderPtr,
		Quality:      *qualityPtr,
		ShowStats:    *statsPtr,
		BuildVersion: buildVersion,
	}

	animation, err := anim.Read(cfg.InputPath)
	if err != nil {
		log.Fatalf("[-] could not read animation description: %v", err)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = system.Workers(animation.Project.Width, animation.Project.Height)
	}

	fmt.Printf("[*] %s: %dx%d @ %d FPS, %d frames, %d layer(s), %d worker(s)\n",
		filepath.Base(cfg.InputPath),
		animation.Project.Width, animation.Project.Height,
		animation.Project.FPS, animation.Project.TotalFrames,
		len(animation.Layers), workers)

	renderer := compose.New(&source.Decoder{DPI: cfg.DPI}, workers)
	if cfg.TimecodeQR {
		renderer.Overlays = append(renderer.Overlays, &overlay.QRTimecode{Margin: 8})
	}

	renderStart := time.Now()
	result := renderer.Render(context.Background(), animation, cfg.StartFrame, cfg.EndFrame)
	renderTime := time.Since(renderStart)

	for _, d := range result.Diagnostics {
		fmt.Printf("[!] %s: %s %s\n", d.Stage, d.LayerID, d.Message)
	}

	exportStart := time.Now()
	if cfg.OutputVideo != "" {
		enc := &video.FFmpegEncoder{Codec: cfg.VideoEncoder, Quality: cfg.Quality}
		if err := enc.Encode(context.Background(), result.Frames, animation.Project.FPS, cfg.OutputVideo); err != nil {
			log.Fatalf("[-] encode error: %v", err)
		}
		fmt.Printf("[+++] Done: %s (%d frames)\n", cfg.OutputVideo, len(result.Frames))
	} else {
		if err := writeFrames(result.Frames, cfg.OutputDir, cfg.StartFrame); err != nil {
			log.Fatalf("[-] export error: %v", err)
		}
		fmt.Printf("[+++] Done: %d frame/mask pair(s) in %s\n", len(result.Frames), cfg.OutputDir)
	}
	exportTime := time.Since(exportStart)

	if cfg.ShowStats {
		total := renderTime + exportTime
		fps := float64(len(result.Frames)) / total.Seconds()
		fmt.Printf(
			"--- [PERFORMANCE REPORT] ---\n"+
				"Build: %s\n"+
				"Render: %.2fs\n"+
				"Export: %.2fs\n"+
				"Effective FPS: %.2f\n"+
				"----------------------------\n",
			cfg.BuildVersion, renderTime.Seconds(), exportTime.Seconds(), fps,
		)
	}
}

func writeFrames(frames []compose.Frame, dir string, startFrame int) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for i, f := range frames {
		idx := startFrame + i
		if err := writePNG(filepath.Join(dir, fmt.Sprintf("frame_%05d.png", idx)), f.RGBImage()); err != nil {
			return err
		}
		if err := writePNG(filepath.Join(dir, fmt.Sprintf("mask_%05d.png", idx)), f.MaskImage()); err != nil {
			return err
		}
		fmt.Printf("[>] Ready: %d/%d\n", i+1, len(frames))
	}
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
