package timetable

import (
	"regexp"
	"strings"
)

var (
	roomNumberRe = regexp.MustCompile(`\b\d{3,4}\b`)
	parenRe      = regexp.MustCompile(`\([^)]*\)`)
	amPmTokenRe  = regexp.MustCompile(`(?i)\b(a\.?m\.?|p\.?m\.?)\b`)
	nonLetterRe  = regexp.MustCompile(`[^A-Za-z+&\s]`)
	spaceRe      = regexp.MustCompile(`\s+`)
	separatorRe  = regexp.MustCompile(`[\t,;\-|]`)
	letterRunRe  = regexp.MustCompile(`[A-Za-z]{3,}`)
	pureAmPmRe   = regexp.MustCompile(`(?i)^(am|pm|ampm|a m|p m|am pm|pm am)$`)
)

// noiseWords are header/label tokens that survive cleaning but are never a
// subject, including every recognized day token.
var noiseWords = func() map[string]bool {
	m := map[string]bool{
		"period": true, "time": true, "duration": true, "day": true,
		"date": true, "am": true, "pm": true, "name": true,
	}
	for alias := range dayAliases {
		m[alias] = true
	}
	return m
}()

// cleanSubject turns a raw cell remainder into a subject name: room numbers,
// parenthetical notes, am/pm markers and non-letter noise are stripped and
// whitespace collapsed. With truncate set, the string is first cut at the
// first tab, comma, semicolon, hyphen or pipe. Returns ok=false when the
// remainder is too short, a known noise word or a pure am/pm artifact.
func cleanSubject(raw string, truncate bool) (string, bool) {
	s := roomNumberRe.ReplaceAllString(raw, " ")
	s = parenRe.ReplaceAllString(s, " ")
	if truncate {
		s = separatorRe.Split(s, 2)[0]
	}
	s = amPmTokenRe.ReplaceAllString(s, " ")
	s = nonLetterRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))

	if !letterRunRe.MatchString(s) || len(s) < 3 {
		return "", false
	}
	lower := strings.ToLower(s)
	if noiseWords[lower] {
		return "", false
	}
	if pureAmPmRe.MatchString(strings.ReplaceAll(lower, " ", "")) {
		return "", false
	}
	return s, true
}
