package overlay

import "testing"

func TestMapToImageScalesEachAxis(t *testing.T) {
	preview := Size{Width: 1080, Height: 1920}
	img := Size{Width: 2160, Height: 5760}
	overlayRect := Rect{Left: 100, Top: 200, Width: 800, Height: 300}

	crop, e := MapToImage(overlayRect, preview, img)
	if e != nil {
		t.Fatalf("MapToImage returned error: %v", e)
	}
	want := CropRect{Left: 200, Top: 600, Width: 1600, Height: 900}
	if crop != want {
		t.Fatalf("crop = %+v, want %+v", crop, want)
	}
}

func TestMapToImageTruncates(t *testing.T) {
	crop, e := MapToImage(Rect{Left: 1, Top: 1, Width: 2, Height: 2}, Size{Width: 3, Height: 3}, Size{Width: 4, Height: 4})
	if e != nil {
		t.Fatalf("MapToImage returned error: %v", e)
	}
	// 1*4/3 = 1.33 -> 1, 2*4/3 = 2.67 -> 2
	want := CropRect{Left: 1, Top: 1, Width: 2, Height: 2}
	if crop != want {
		t.Fatalf("crop = %+v, want %+v", crop, want)
	}
}

func TestMapToImageSwapsLandscapeCapture(t *testing.T) {
	preview := Size{Width: 1000, Height: 2000}
	img := Size{Width: 4000, Height: 2000}
	overlayRect := Rect{Left: 100, Top: 1000, Width: 800, Height: 200}

	crop, e := MapToImage(overlayRect, preview, img)
	if e != nil {
		t.Fatalf("MapToImage returned error: %v", e)
	}
	// oriented image is 2000x4000 -> scale 2 on both axes
	want := CropRect{Left: 200, Top: 2000, Width: 1600, Height: 400}
	if crop != want {
		t.Fatalf("crop = %+v, want %+v", crop, want)
	}
}

func TestMapToImageClampsToBounds(t *testing.T) {
	crop, e := MapToImage(Rect{Left: -50, Top: 900, Width: 2000, Height: 500}, Size{Width: 1000, Height: 1000}, Size{Width: 500, Height: 500})
	if e != nil {
		t.Fatalf("MapToImage returned error: %v", e)
	}
	want := CropRect{Left: 0, Top: 450, Width: 500, Height: 50}
	if crop != want {
		t.Fatalf("crop = %+v, want %+v", crop, want)
	}
}

func TestMapToImageAlwaysInsideImage(t *testing.T) {
	previews := []Size{{1080, 1920}, {1920, 1080}, {1, 1}, {333, 777}}
	images := []Size{{4032, 3024}, {3024, 4032}, {640, 480}, {7, 13}}
	offsets := []int{-5000, -1, 0, 1, 17, 400, 1079, 5000}
	extents := []int{-10, 0, 1, 50, 999, 10000}

	for _, preview := range previews {
		for _, img := range images {
			bounds := OrientedImageSize(preview, img)
			for _, left := range offsets {
				for _, top := range offsets {
					for _, extent := range extents {
						overlayRect := Rect{Left: left, Top: top, Width: extent, Height: extent / 2}
						crop, e := MapToImage(overlayRect, preview, img)
						if e != nil {
							t.Fatalf("MapToImage(%+v, %+v, %+v) returned error: %v", overlayRect, preview, img, e)
						}
						if crop.Left < 0 || crop.Top < 0 || crop.Width < 0 || crop.Height < 0 ||
							crop.Left+crop.Width > bounds.Width || crop.Top+crop.Height > bounds.Height {
							t.Fatalf("crop %+v escapes %+v (overlay %+v, preview %+v)", crop, bounds, overlayRect, preview)
						}
					}
				}
			}
		}
	}
}

func TestMapToImageRejectsZeroPreview(t *testing.T) {
	for _, preview := range []Size{{0, 0}, {0, 1920}, {1080, 0}} {
		_, e := MapToImage(Rect{Width: 10, Height: 10}, preview, Size{Width: 100, Height: 100})
		if e == nil {
			t.Fatalf("expected error for preview %+v", preview)
		}
	}
}

func TestMapToImageRejectsEmptyImage(t *testing.T) {
	_, e := MapToImage(Rect{Width: 10, Height: 10}, Size{Width: 100, Height: 100}, Size{})
	if e == nil {
		t.Fatal("expected error for empty image")
	}
}

func TestOrientedImageSize(t *testing.T) {
	if got := OrientedImageSize(Size{1080, 1920}, Size{4000, 3000}); got != (Size{3000, 4000}) {
		t.Fatalf("landscape capture on portrait preview not swapped: %+v", got)
	}
	if got := OrientedImageSize(Size{1920, 1080}, Size{4000, 3000}); got != (Size{4000, 3000}) {
		t.Fatalf("landscape preview should keep size: %+v", got)
	}
	if got := OrientedImageSize(Size{1080, 1920}, Size{3000, 4000}); got != (Size{3000, 4000}) {
		t.Fatalf("portrait capture should keep size: %+v", got)
	}
}
