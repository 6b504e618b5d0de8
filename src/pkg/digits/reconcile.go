package digits

import (
	"errors"
	"fmt"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

var (
	ErrInsufficientGroups = errors.New("insufficient digit groups")
	ErrDigitCountMismatch = errors.New("digit count mismatch")
)

// Failure classifies why a reconciliation was rejected.
type Failure int

const (
	FailureNone Failure = iota
	FailureInsufficientGroups
	FailureDigitCountMismatch
)

func (f Failure) String() string {
	switch f {
	case FailureNone:
		return "none"
	case FailureInsufficientGroups:
		return "insufficient_groups"
	case FailureDigitCountMismatch:
		return "digit_count_mismatch"
	default:
		return fmt.Sprintf("failure(%d)", int(f))
	}
}

func (f Failure) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Reconciliation is everything Reconcile learned about one recognized text.
type Reconciliation struct {
	Groups     []string `json:"groups"`
	Leading    []string `json:"leading"`
	Trailing   []string `json:"trailing"`
	UsedManual bool     `json:"used_manual"`
	Line       string   `json:"line,omitempty"`
	Digits     int      `json:"digits"`
	Failure    Failure  `json:"failure"`
}

// ManualEmpty reports whether no manual group was entered.
func ManualEmpty(manual []string) bool {
	for _, group := range manual {
		if group != "" {
			return false
		}
	}
	return true
}

/*
Reconcile builds a result line out of recognized text.

Groups are extracted with mode; fewer than MinGroups fails with
ErrInsufficientGroups. The first LeadingGroups groups come from OCR unless
any manual entry is non-empty, in which case the manual entries are used
verbatim. The trailing groups are always OCR groups at positions
LeadingGroups..MinGroups-1; anything after them is ignored. The joined line
must hold exactly LineDigits digits, else ErrDigitCountMismatch.

On failure the returned Reconciliation still carries what was found and its
Failure field says why.
*/
func Reconcile(text string, manual []string, mode Mode) (result Reconciliation, e *xerr.Error) {
	result.Groups = Extract(text, mode)
	tl.Log(tl.Verbose, palette.CyanDim, "Detected %s digit groups: '%s'", len(result.Groups), strings.Join(result.Groups, " "))

	if len(result.Groups) < MinGroups {
		result.Failure = FailureInsufficientGroups
		tl.Log(tl.Warning, palette.PurpleBold, "Insufficient groups detected: got '%s', need '%s'", len(result.Groups), MinGroups)
		return result, xerr.NewError(ErrInsufficientGroups, "unable to reconcile recognized text", map[string]any{
			"groups": len(result.Groups), "required": MinGroups,
		})
	}

	ocrLeading := result.Groups[:LeadingGroups]
	result.Trailing = append([]string(nil), result.Groups[LeadingGroups:MinGroups]...)

	if ManualEmpty(manual) {
		result.Leading = append([]string(nil), ocrLeading...)
	} else {
		result.Leading = append([]string(nil), manual...)
		result.UsedManual = true
	}

	tl.Log(tl.Info1, palette.Cyan, "Leading groups (%s): '%s'", sourceName(result.UsedManual), strings.Join(result.Leading, " "))
	tl.Log(tl.Info1, palette.Cyan, "Trailing groups (ocr): '%s'", strings.Join(result.Trailing, " "))

	line := strings.Join(result.Leading, " ") + " " + strings.Join(result.Trailing, " ")
	result.Digits, e = Validate(line)
	if e != nil {
		result.Failure = FailureDigitCountMismatch
		tl.Log(tl.Warning, palette.PurpleBold, "Invalid number of digits detected. Expected '%s', but got '%s'", LineDigits, result.Digits)
		return result, e
	}

	result.Line = line
	return result, nil
}

/*
Validate counts the digits of a formatted line. Anything other than
LineDigits digits separated by single spaces is ErrDigitCountMismatch;
a leading, trailing or doubled space counts as a stray character.
*/
func Validate(line string) (digitCount int, e *xerr.Error) {
	otherCount := 0
	for i := 0; i < len(line); i++ {
		switch {
		case isDigit(line[i]):
			digitCount++
		case line[i] == ' ':
			if i == 0 || i == len(line)-1 || line[i-1] == ' ' {
				otherCount++
			}
		default:
			otherCount++
		}
	}

	if digitCount != LineDigits || otherCount > 0 {
		e = xerr.NewError(ErrDigitCountMismatch, "unable to validate line", map[string]any{
			"line": line, "digits": digitCount, "other": otherCount, "expected": LineDigits,
		})
	}
	return digitCount, e
}

func sourceName(manual bool) string {
	if manual {
		return "manual"
	}
	return "ocr"
}
