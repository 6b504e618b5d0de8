/*
Package digits turns recognized text into the fixed-width digit groups of a
payment line and reconciles them with manually entered groups.

A line has LeadingGroups groups followed by TrailingGroups groups, every
group GroupSize digits wide, LineDigits digits in total.
*/
package digits

import (
	"regexp"
	"strings"
)

const (
	GroupSize      = 4
	LeadingGroups  = 8
	TrailingGroups = 3
	MinGroups      = LeadingGroups + TrailingGroups
	LineDigits     = MinGroups * GroupSize
)

// Mode selects how groups are pulled out of recognized text.
type Mode string

const (
	// ModeChunk keeps every digit and cuts the stream into groups of four.
	ModeChunk Mode = "chunk"
	// ModeRuns takes each run of four digits as found in the text.
	ModeRuns Mode = "runs"
)

var groupRunRegexp = regexp.MustCompile(`\d{4}`)

// LinePattern matches a well formed result line.
var LinePattern = regexp.MustCompile(`^\d{4}( \d{4}){7} \d{4} \d{4} \d{4}$`)

// OnlyDigits drops every character that is not an ASCII digit.
func OnlyDigits(text string) string {
	var builder strings.Builder
	builder.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if isDigit(text[i]) {
			builder.WriteByte(text[i])
		}
	}
	return builder.String()
}

/*
ChunkGroups keeps only digits and partitions them into consecutive groups of
GroupSize. A trailing remainder shorter than GroupSize is kept as a short
final group so that a partially read line fails the digit count instead of
silently losing digits.
*/
func ChunkGroups(text string) []string {
	stream := OnlyDigits(text)
	groups := make([]string, 0, len(stream)/GroupSize+1)
	for start := 0; start < len(stream); start += GroupSize {
		end := min(start+GroupSize, len(stream))
		groups = append(groups, stream[start:end])
	}
	return groups
}

// RunGroups returns every run of four digits in the text, left to right.
func RunGroups(text string) []string {
	return groupRunRegexp.FindAllString(text, -1)
}

// Extract dispatches to ChunkGroups or RunGroups. Unknown modes chunk.
func Extract(text string, mode Mode) []string {
	if mode == ModeRuns {
		return RunGroups(text)
	}
	return ChunkGroups(text)
}

// WellFormed reports whether line matches LinePattern.
func WellFormed(line string) bool {
	return LinePattern.MatchString(line)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
