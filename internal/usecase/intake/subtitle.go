package intake

import "strings"

const (
	subtitleHeader = "WEBVTT"
	cueSeparator   = "-->"
)

// StripSubtitle drops the header, blank lines, cue timings and cue indices from
// a subtitle document and joins the remaining trimmed lines with single spaces.
func StripSubtitle(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.Contains(line, subtitleHeader) {
			continue
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, cueSeparator) || isCueIndex(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, " ")
}

func isCueIndex(line string) bool {
	for _, r := range line {
		if r < '0' || r > '9' {
			return false
		}
	}
	return line != ""
}
