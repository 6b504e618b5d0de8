package ocr

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"digit-capture/src/pkg/overlay"
)

// stripedImage is white with a black square in the top left corner.
func stripedImage(width, height int) *image.NRGBA {
	img := imaging.New(width, height, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	for y := 0; y < height/4; y++ {
		for x := 0; x < width/4; x++ {
			img.Set(x, y, color.NRGBA{A: 255})
		}
	}
	return img
}

func TestNormalizeOrientationRotatesLandscapeForPortraitPreview(t *testing.T) {
	img := stripedImage(400, 200)
	rotated := NormalizeOrientation(img, overlay.Size{Width: 1080, Height: 1920})
	if size := overlay.SizeOf(rotated); size != (overlay.Size{Width: 200, Height: 400}) {
		t.Fatalf("rotated size = %+v", size)
	}
	// clockwise rotation moves the top-left corner to the top-right
	if r, _, _, _ := rotated.At(199, 0).RGBA(); r != 0 {
		t.Fatalf("expected dark pixel at top right after rotation")
	}
}

func TestNormalizeOrientationKeepsMatchingOrientation(t *testing.T) {
	img := stripedImage(400, 200)
	same := NormalizeOrientation(img, overlay.Size{Width: 1920, Height: 1080})
	if same != image.Image(img) {
		t.Fatal("landscape preview should keep the image")
	}
}

func TestCropToOverlay(t *testing.T) {
	img := stripedImage(100, 80)
	cropped, e := CropToOverlay(img, overlay.CropRect{Left: 10, Top: 20, Width: 30, Height: 40})
	if e != nil {
		t.Fatalf("CropToOverlay returned error: %v", e)
	}
	if cropped.Bounds() != image.Rect(0, 0, 30, 40) {
		t.Fatalf("bounds = %v", cropped.Bounds())
	}
}

func TestCropToOverlayRejectsEmptyAndOutside(t *testing.T) {
	img := stripedImage(100, 80)
	if _, e := CropToOverlay(img, overlay.CropRect{Left: 10, Top: 10, Width: 0, Height: 10}); e == nil {
		t.Fatal("expected error for empty crop")
	}
	if _, e := CropToOverlay(img, overlay.CropRect{Left: 90, Top: 10, Width: 20, Height: 10}); e == nil {
		t.Fatal("expected error for crop outside image")
	}
}

func TestEnhanceKeepsSizeAndDarkens(t *testing.T) {
	img := imaging.New(20, 10, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	enhanced := Enhance(img, EnhanceOptions{Grayscale: true, ChannelScale: 0.8})
	if enhanced.Bounds() != img.Bounds() {
		t.Fatalf("bounds changed: %v", enhanced.Bounds())
	}
	if got := enhanced.NRGBAAt(5, 5).R; got != 160 {
		t.Fatalf("scaled channel = %d, want 160", got)
	}
}

func TestEnhanceThreshold(t *testing.T) {
	img := imaging.New(2, 1, color.NRGBA{R: 90, G: 90, B: 90, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 220, G: 220, B: 220, A: 255})
	enhanced := Enhance(img, EnhanceOptions{Threshold: 128})
	if enhanced.NRGBAAt(0, 0).R != 0 || enhanced.NRGBAAt(1, 0).R != 255 {
		t.Fatalf("threshold not applied: %v %v", enhanced.NRGBAAt(0, 0), enhanced.NRGBAAt(1, 0))
	}
}

func TestConfigEnhanceOptions(t *testing.T) {
	cfg := DefaultValueConfig()
	opts := cfg.EnhanceOptions()
	if !opts.Grayscale || opts.ChannelScale != 0.8 || opts.Threshold != 0 {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
	off := false
	cfg.Grayscale = &off
	cfg.Threshold = 900
	opts = cfg.EnhanceOptions()
	if opts.Grayscale || opts.Threshold != 255 {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestInitializeConfigKeepsExplicitlyDisabledSteps(t *testing.T) {
	saved := Cfg
	t.Cleanup(func() { Cfg = saved })

	var local Config
	if err := json.Unmarshal([]byte(`{"grayscale": false, "contrast": 0, "sharpen": 0}`), &local); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	InitializeConfig(&local)

	opts := Cfg.EnhanceOptions()
	if opts.Grayscale || opts.Contrast != 0 || opts.Sharpen != 0 {
		t.Fatalf("explicit values were overridden: %+v", opts)
	}
	if Cfg.Language != "eng" || opts.ChannelScale != 0.8 {
		t.Fatalf("missing fields must still get defaults: %+v", Cfg)
	}
}

func TestInitializeConfigDefaultsMissingSteps(t *testing.T) {
	saved := Cfg
	t.Cleanup(func() { Cfg = saved })

	InitializeConfig(&Config{Engine: EngineTesseract})

	opts := Cfg.EnhanceOptions()
	if !opts.Grayscale || opts.Contrast != 40 || opts.Sharpen != 1 {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestNewRecognizer(t *testing.T) {
	cfg := DefaultValueConfig()
	if recognizer, e := NewRecognizer(cfg); e != nil {
		t.Fatalf("NewRecognizer returned error: %v", e)
	} else if _, ok := recognizer.(*TesseractRecognizer); !ok {
		t.Fatalf("expected tesseract recognizer, got %T", recognizer)
	}

	cfg.Engine = EngineOpenAI
	if recognizer, _ := NewRecognizer(cfg); recognizer == nil {
		t.Fatal("expected managed recognizer")
	}

	cfg.Engine = "mlkit"
	if _, e := NewRecognizer(cfg); e == nil {
		t.Fatal("expected error for unknown engine")
	}
}

func TestManagedRecognizerRequiresKey(t *testing.T) {
	recognizer := &ManagedRecognizer{Model: "gpt-5-mini"}
	if _, e := recognizer.Recognize(context.Background(), stripedImage(4, 4)); e == nil {
		t.Fatal("expected error without API key")
	}
}

func TestSaveArtifacts(t *testing.T) {
	dir := t.TempDir()
	runDir, e := SaveArtifacts(dir, "capture-1", stripedImage(8, 8), "3524 1060")
	if e != nil {
		t.Fatalf("SaveArtifacts returned error: %v", e)
	}
	if runDir != filepath.Join(dir, "capture-1") {
		t.Fatalf("runDir = %s", runDir)
	}
	for _, name := range []string{"enhanced.png", "ocr.txt"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
}
