/*
Package overlay maps the fixed on-screen crop overlay into pixel coordinates
of a captured image.

The overlay is defined in preview (screen) pixels. The capture usually has a
much higher resolution and may come out of the sensor in landscape while the
preview is laid out in portrait, so both axes are scaled independently.
*/
package overlay

import (
	"errors"
	"fmt"
	"image"

	"github.com/tuumbleweed/xerr"

	"digit-capture/src/pkg/util"
)

var (
	// ErrPreviewNotLaidOut means the preview size is zero (view not measured yet).
	ErrPreviewNotLaidOut = errors.New("preview has no size")
	// ErrEmptyImage means the captured image has no pixels.
	ErrEmptyImage = errors.New("captured image has no size")
)

// Rect is the overlay position and size in preview pixels.
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SizeOf returns the size of an image's bounds.
func SizeOf(img image.Image) Size {
	bounds := img.Bounds()
	return Size{Width: bounds.Dx(), Height: bounds.Dy()}
}

func (s Size) Landscape() bool { return s.Width > s.Height }
func (s Size) Portrait() bool  { return s.Height > s.Width }
func (s Size) Empty() bool     { return s.Width <= 0 || s.Height <= 0 }

// Swapped returns the size with width and height exchanged.
func (s Size) Swapped() Size {
	return Size{Width: s.Height, Height: s.Width}
}

// CropRect is the overlay rescaled into image pixel space.
type CropRect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rectangle converts the crop to an image.Rectangle anchored at the origin.
func (c CropRect) Rectangle() image.Rectangle {
	return image.Rect(c.Left, c.Top, c.Left+c.Width, c.Top+c.Height)
}

func (c CropRect) Empty() bool { return c.Width <= 0 || c.Height <= 0 }

func (c CropRect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", c.Width, c.Height, c.Left, c.Top)
}

/*
OrientedImageSize returns the image size the overlay should be mapped onto.

A landscape capture paired with a portrait preview is treated as if it had
already been rotated into portrait, so width and height are swapped.
*/
func OrientedImageSize(preview Size, img Size) Size {
	if img.Landscape() && preview.Portrait() {
		return img.Swapped()
	}
	return img
}

/*
MapToImage converts the overlay into a crop rectangle inside the captured
image.

Scale factors are image/preview per axis. Offsets and extents are scaled and
truncated, then the rectangle is clamped to [0, width] x [0, height] of the
(oriented) image. A zero preview is a precondition violation and returns
ErrPreviewNotLaidOut.
*/
func MapToImage(overlayRect Rect, preview Size, img Size) (crop CropRect, e *xerr.Error) {
	if preview.Empty() {
		return crop, xerr.NewError(ErrPreviewNotLaidOut, "unable to scale overlay", preview)
	}
	if img.Empty() {
		return crop, xerr.NewError(ErrEmptyImage, "unable to scale overlay", img)
	}

	target := OrientedImageSize(preview, img)

	scaleX := float64(target.Width) / float64(preview.Width)
	scaleY := float64(target.Height) / float64(preview.Height)

	scaledLeft := int(float64(overlayRect.Left) * scaleX)
	scaledTop := int(float64(overlayRect.Top) * scaleY)
	scaledWidth := int(float64(overlayRect.Width) * scaleX)
	scaledHeight := int(float64(overlayRect.Height) * scaleY)

	left := util.Clamp(scaledLeft, 0, target.Width)
	top := util.Clamp(scaledTop, 0, target.Height)
	right := util.Clamp(scaledLeft+scaledWidth, left, target.Width)
	bottom := util.Clamp(scaledTop+scaledHeight, top, target.Height)

	crop = CropRect{
		Left:   left,
		Top:    top,
		Width:  right - left,
		Height: bottom - top,
	}
	return crop, nil
}
