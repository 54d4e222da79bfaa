package encoder

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
)

// Atomic counter for unique temp file names across goroutines.
var tempCounter atomic.Int64

// WebPEncoder encodes images to WebP by shelling out to cwebp, so WebP
// sources can round-trip through augmentation in their own format.
// This approach avoids CGO. Install: brew install webp / apt install webp
type WebPEncoder struct {
	once      sync.Once
	available bool
	cwebpPath string
}

func (e *WebPEncoder) Format() string    { return "webp" }
func (e *WebPEncoder) Extension() string { return "webp" }

func (e *WebPEncoder) Available() bool {
	e.once.Do(func() {
		path, err := exec.LookPath("cwebp")
		if err == nil {
			e.available = true
			e.cwebpPath = path
		}
	})
	return e.available
}

func (e *WebPEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if !e.Available() {
		return nil, fmt.Errorf("cwebp not found in PATH; install with: brew install webp")
	}
	if quality <= 0 || quality > 100 {
		quality = 90
	}

	// Write source as PNG to temp file (cwebp reads files).
	// Use atomic counter to ensure unique filenames across goroutines.
	id := tempCounter.Add(1)
	srcFile, err := os.CreateTemp("", fmt.Sprintf("augset_src_%d_*.png", id))
	if err != nil {
		return nil, fmt.Errorf("create temp: %w", err)
	}
	srcPath := srcFile.Name()
	dstFile, err := os.CreateTemp("", fmt.Sprintf("augset_dst_%d_*.webp", id))
	if err != nil {
		srcFile.Close()
		os.Remove(srcPath)
		return nil, fmt.Errorf("create temp: %w", err)
	}
	dstPath := dstFile.Name()
	dstFile.Close()
	defer os.Remove(srcPath)
	defer os.Remove(dstPath)

	if err := png.Encode(srcFile, img); err != nil {
		srcFile.Close()
		return nil, fmt.Errorf("encode temp png: %w", err)
	}
	srcFile.Close()

	// Run cwebp.
	cmd := exec.Command(e.cwebpPath,
		"-q", fmt.Sprintf("%d", quality),
		"-m", "6", // compression method (0=fast, 6=best)
		"-mt",     // multi-threaded
		"-quiet",
		srcPath,
		"-o", dstPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("cwebp: %w: %s", err, string(out))
	}

	return os.ReadFile(dstPath)
}
