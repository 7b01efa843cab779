package ffmpeg

import (
	"strconv"
	"strings"
)

// optionalClause renders bound through render when it is set and yields
// nothing otherwise. Trim filters and audio seek flags both go through here.
func optionalClause(bound *int, render func(int) []string) []string {
	if bound == nil {
		return nil
	}
	return render(*bound)
}

// formatFloat renders v the way ffmpeg users expect to read it back:
// integral values keep a trailing ".0" (30 -> "30.0").
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
