package ocr

import (
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

/*
ensureOutputDirectory creates the target directory (and parents) if needed.

It uses os.MkdirAll and returns a *xerr.Error if creation fails.
*/
func ensureOutputDirectory(outputDirPath string) (e *xerr.Error) {
	err := os.MkdirAll(outputDirPath, 0o755)
	if err != nil {
		return xerr.NewError(err, "create output directory", outputDirPath)
	}
	return nil
}

/*
SaveArtifacts keeps the enhanced crop and the raw OCR text of one capture
for debugging, as <dir>/<captureID>/enhanced.png and ocr.txt.

Either part may be skipped: a nil image or an empty text is not written.
*/
func SaveArtifacts(dir string, captureID string, enhanced image.Image, ocrText string) (runDirPath string, e *xerr.Error) {
	runDirPath = filepath.Join(dir, captureID)
	e = ensureOutputDirectory(runDirPath)
	if e != nil {
		return runDirPath, e
	}

	if enhanced != nil {
		imagePath := filepath.Join(runDirPath, "enhanced.png")
		saveErr := imaging.Save(enhanced, imagePath)
		if saveErr != nil {
			return runDirPath, xerr.NewError(saveErr, "save enhanced image", imagePath)
		}
		tl.Log(tl.Info1, palette.Green, "Saved enhanced image to '%s'", imagePath)
	}

	if ocrText != "" {
		textPath := filepath.Join(runDirPath, "ocr.txt")
		writeErr := os.WriteFile(textPath, []byte(ocrText), 0o644)
		if writeErr != nil {
			return runDirPath, xerr.NewError(writeErr, "write OCR text file", textPath)
		}
		tl.Log(tl.Info1, palette.Green, "Saved OCR text to '%s'", textPath)
	}

	return runDirPath, nil
}
