package timetable

import (
	"fmt"
	"regexp"
	"strconv"
)

// timeRangeRe matches spans like "9:00 - 10:00", "09.00AM-10.00PM" or
// "9:00–10:00": hour with one or two digits, exactly two minute digits,
// colon or dot separator, optional dotted or undotted am/pm markers and any
// of the three dash variants between start and end.
var timeRangeRe = regexp.MustCompile(
	`(?i)(\d{1,2})[:.](\d{2})\s*(?:a\.?m\.?|p\.?m\.?)?\s*[-–—]\s*(\d{1,2})[:.](\d{2})\s*(?:a\.?m\.?|p\.?m\.?)?`)

// timeMatch is one recognized time range with its byte offsets in the
// scanned string, kept so callers can split subject text around it.
type timeMatch struct {
	label string
	start int
	end   int
}

// findTimeRanges returns all non-overlapping time ranges in s, left to
// right. Each label is normalized to "H:MM - H:MM" with the matched digits
// passed through verbatim; am/pm markers are dropped, not converted.
func findTimeRanges(s string) []timeMatch {
	idx := timeRangeRe.FindAllStringSubmatchIndex(s, -1)
	if len(idx) == 0 {
		return nil
	}
	matches := make([]timeMatch, 0, len(idx))
	for _, m := range idx {
		startHour, _ := strconv.Atoi(s[m[2]:m[3]])
		startMin := s[m[4]:m[5]]
		endHour, _ := strconv.Atoi(s[m[6]:m[7]])
		endMin := s[m[8]:m[9]]
		matches = append(matches, timeMatch{
			label: fmt.Sprintf("%d:%s - %d:%s", startHour, startMin, endHour, endMin),
			start: m[0],
			end:   m[1],
		})
	}
	return matches
}

// hasTimeRange reports whether s contains at least one time range.
func hasTimeRange(s string) bool {
	return timeRangeRe.MatchString(s)
}
