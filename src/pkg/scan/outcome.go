package scan

import (
	"fmt"

	"github.com/tuumbleweed/xerr"

	"digit-capture/src/pkg/digits"
	"digit-capture/src/pkg/overlay"
)

// Status is the terminal state of one capture.
type Status int

const (
	StatusSucceeded Status = iota
	StatusRecognizerFailed
	StatusCaptureFailed
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusRecognizerFailed:
		return "recognizer_failed"
	case StatusCaptureFailed:
		return "capture_failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Kind says what went wrong; KindNone on success.
type Kind int

const (
	KindNone Kind = iota
	KindInsufficientGroups
	KindDigitCountMismatch
	KindCaptureFailed
	KindFileIoError
	KindRecognitionFailed
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInsufficientGroups:
		return "insufficient_groups"
	case KindDigitCountMismatch:
		return "digit_count_mismatch"
	case KindCaptureFailed:
		return "capture_failed"
	case KindFileIoError:
		return "file_io_error"
	case KindRecognitionFailed:
		return "recognition_failed"
	case KindCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func kindFromFailure(failure digits.Failure) Kind {
	switch failure {
	case digits.FailureInsufficientGroups:
		return KindInsufficientGroups
	case digits.FailureDigitCountMismatch:
		return KindDigitCountMismatch
	default:
		return KindNone
	}
}

// Outcome is the tagged result of one capture.
type Outcome struct {
	CaptureID  string            `json:"capture_id"`
	Source     string            `json:"source"`
	Status     Status            `json:"status"`
	Kind       Kind              `json:"kind"`
	Crop       *overlay.CropRect `json:"crop,omitempty"`
	Text       string            `json:"text,omitempty"`
	Groups     []string          `json:"groups,omitempty"`
	UsedManual bool              `json:"used_manual"`
	Line       string            `json:"line,omitempty"`
	Digits     int               `json:"digits"`
	Err        *xerr.Error       `json:"-"`
}

func (o Outcome) Succeeded() bool {
	return o.Status == StatusSucceeded
}

// Notice is the short message shown to whoever triggered the capture.
func (o Outcome) Notice() string {
	switch o.Kind {
	case KindNone:
		return "Numbers saved: " + o.Line
	case KindInsufficientGroups:
		return fmt.Sprintf("Could not read all the numbers: only %d groups detected", len(o.Groups))
	case KindDigitCountMismatch:
		return fmt.Sprintf("Could not read all the numbers: expected %d digits, got %d", digits.LineDigits, o.Digits)
	case KindCaptureFailed:
		return "Photo capture failed"
	case KindFileIoError:
		return "Could not write the numbers file"
	case KindRecognitionFailed:
		return "Text recognition failed"
	case KindCancelled:
		return "Capture cancelled, nothing was saved"
	default:
		return o.Kind.String()
	}
}
