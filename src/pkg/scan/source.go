package scan

import (
	"bytes"
	"context"
	"errors"
	"image"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/tuumbleweed/xerr"
)

// ErrNoImageData means an upload carried no bytes.
var ErrNoImageData = errors.New("no image data")

// CapturedImage is one decoded capture, discarded after processing.
type CapturedImage struct {
	ID    string
	Name  string
	Image image.Image
}

// Source produces one capture. It plays the role of the camera.
type Source interface {
	Capture(ctx context.Context) (CapturedImage, *xerr.Error)
}

// FileSource decodes an image file, honouring its EXIF orientation.
type FileSource struct {
	Path string
}

func (s FileSource) Capture(ctx context.Context) (captured CapturedImage, e *xerr.Error) {
	img, err := imaging.Open(s.Path, imaging.AutoOrientation(true))
	if err != nil {
		return captured, xerr.NewError(err, "open captured image", s.Path)
	}
	return CapturedImage{ID: uuid.NewString(), Name: filepath.Base(s.Path), Image: img}, nil
}

// BytesSource decodes an in-memory upload.
type BytesSource struct {
	Name string
	Data []byte
}

func (s BytesSource) Capture(ctx context.Context) (captured CapturedImage, e *xerr.Error) {
	if len(s.Data) == 0 {
		return captured, xerr.NewError(ErrNoImageData, "decode uploaded image", s.Name)
	}
	img, err := imaging.Decode(bytes.NewReader(s.Data), imaging.AutoOrientation(true))
	if err != nil {
		return captured, xerr.NewError(err, "decode uploaded image", s.Name)
	}
	return CapturedImage{ID: uuid.NewString(), Name: s.Name, Image: img}, nil
}

// ImageSource wraps an already decoded image.
type ImageSource struct {
	Name  string
	Image image.Image
}

func (s ImageSource) Capture(ctx context.Context) (captured CapturedImage, e *xerr.Error) {
	if s.Image == nil {
		return captured, xerr.NewError(ErrNoImageData, "use in-memory image", s.Name)
	}
	return CapturedImage{ID: uuid.NewString(), Name: s.Name, Image: s.Image}, nil
}
