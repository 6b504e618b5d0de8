package ocr

import (
	"errors"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"digit-capture/src/pkg/overlay"
)

// ErrEmptyCrop means the mapped overlay does not cover any pixel.
var ErrEmptyCrop = errors.New("crop rectangle is empty")

// EnhanceOptions controls Enhance. Zero values disable a step, except
// ChannelScale where 0 is treated as 1.
type EnhanceOptions struct {
	Grayscale    bool
	ChannelScale float64
	Contrast     float64
	Sharpen      float64
	Threshold    uint8
}

/*
NormalizeOrientation rotates a landscape capture 90 degrees clockwise when
the preview is portrait, so the pixels line up with
overlay.OrientedImageSize.
*/
func NormalizeOrientation(img image.Image, preview overlay.Size) image.Image {
	size := overlay.SizeOf(img)
	if !(size.Landscape() && preview.Portrait()) {
		return img
	}
	tl.Log(tl.Info1, palette.Blue, "Rotating %s capture by %s to match %s preview", "landscape", "90 degrees", "portrait")
	return imaging.Rotate270(img)
}

// CropToOverlay cuts crop out of img. The result starts at (0, 0).
func CropToOverlay(img image.Image, crop overlay.CropRect) (cropped *image.NRGBA, e *xerr.Error) {
	if crop.Empty() {
		return nil, xerr.NewError(ErrEmptyCrop, "crop image to overlay", crop.String())
	}

	bounds := img.Bounds()
	rect := crop.Rectangle().Add(bounds.Min)
	if !rect.In(bounds) {
		return nil, xerr.NewError(ErrEmptyCrop, "crop rectangle outside image", map[string]any{
			"crop": crop.String(), "bounds": bounds.String(),
		})
	}

	cropped = imaging.Crop(img, rect)
	tl.Log(tl.Info1, palette.Blue, "Cropped capture to '%s'", crop.String())
	return cropped, nil
}

/*
Enhance prepares a crop for OCR.

The steps are:
  - Optionally convert to grayscale.
  - Scale every colour channel by ChannelScale (a colour matrix scale).
  - Adjust contrast.
  - Optionally sharpen.
  - Optionally apply a hard threshold to get a pure black/white image.
*/
func Enhance(img image.Image, opts EnhanceOptions) *image.NRGBA {
	enhanced := imaging.Clone(img)

	if opts.Grayscale {
		enhanced = imaging.Grayscale(enhanced)
	}

	if opts.ChannelScale > 0 && opts.ChannelScale != 1 {
		scale := opts.ChannelScale
		enhanced = imaging.AdjustFunc(enhanced, func(c color.NRGBA) color.NRGBA {
			return color.NRGBA{R: scaleChannel(c.R, scale), G: scaleChannel(c.G, scale), B: scaleChannel(c.B, scale), A: c.A}
		})
	}

	if opts.Contrast != 0 {
		enhanced = imaging.AdjustContrast(enhanced, opts.Contrast)
	}

	if opts.Sharpen > 0 {
		enhanced = imaging.Sharpen(enhanced, opts.Sharpen)
	}

	if opts.Threshold > 0 {
		threshold := opts.Threshold
		enhanced = imaging.AdjustFunc(enhanced, func(c color.NRGBA) color.NRGBA {
			// Rec. 601 luma as the brightness proxy.
			luma := (299*uint32(c.R) + 587*uint32(c.G) + 114*uint32(c.B)) / 1000
			if luma > uint32(threshold) {
				return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			return color.NRGBA{R: 0, G: 0, B: 0, A: 255}
		})
	}

	return enhanced
}

func scaleChannel(value uint8, scale float64) uint8 {
	scaled := float64(value) * scale
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}
