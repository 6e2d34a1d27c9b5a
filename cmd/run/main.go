package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/wasm96/core/engine"
	"github.com/wasm96/core/runtime"
)

const frameRate = 60

func main() {
	var (
		cartFile    = flag.String("cart", "", "Path to cartridge wasm file")
		frames      = flag.Int("frames", 60, "Number of frames to run in headless mode")
		pngOut      = flag.String("png", "", "Write the final framebuffer to this PNG file")
		interactive = flag.Bool("i", false, "Interactive viewer")
		verbose     = flag.Bool("v", false, "Verbose host logging")
	)
	flag.Parse()

	if *verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		engine.SetLogger(log)
	}

	if *interactive {
		if err := runInteractive(*cartFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *cartFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: run -cart <file.wasm> [-frames N] [-png out.png]")
		fmt.Fprintln(os.Stderr, "       run -cart <file.wasm> -i  (interactive viewer)")
		os.Exit(1)
	}

	if err := run(*cartFile, *frames, *pngOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cartFile string, frames int, pngOut string) error {
	ctx := context.Background()

	data, err := os.ReadFile(cartFile)
	if err != nil {
		return fmt.Errorf("read cartridge: %w", err)
	}

	console, err := runtime.NewConsole(ctx, nil)
	if err != nil {
		return err
	}
	defer console.Close(ctx)

	if err := console.Load(ctx, data); err != nil {
		return err
	}

	fmt.Printf("Cartridge: %s\n", cartFile)
	fmt.Printf("Draw role: %s\n", console.DrawRole())

	tick := time.NewTicker(time.Second / frameRate)
	defer tick.Stop()

	drainedFrames := 0
	for i := 0; i < frames; i++ {
		<-tick.C
		if err := console.RunFrame(ctx); err != nil {
			return err
		}
		pcm := console.Audio().Drain(0)
		pcm = append(pcm, console.TakeAudio()...)
		drainedFrames += len(pcm) / int(console.Audio().Channels())
	}

	video := console.Video()
	fmt.Printf("Ran %d frames at %dx%d, drained %d audio frames\n",
		frames, video.Width(), video.Height(), drainedFrames)

	if pngOut != "" {
		if err := dumpPNG(pngOut, console); err != nil {
			return fmt.Errorf("write framebuffer: %w", err)
		}
		fmt.Printf("Framebuffer written to %s\n", pngOut)
	}
	return nil
}

// dumpPNG snapshots the framebuffer through the readback path, so it works
// regardless of the configured wire pixel format.
func dumpPNG(path string, console *runtime.Console) error {
	video := console.Video()
	w := int(video.Width())
	h := int(video.Height())

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := video.Pixel(int32(x), int32(y))
			img.Set(x, y, color.RGBA{
				R: uint8(p >> 16),
				G: uint8(p >> 8),
				B: uint8(p),
				A: 255,
			})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
