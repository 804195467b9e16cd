package timetable

import (
	"regexp"
	"strings"
)

// canonicalDays is the calendar-ordered set every detected day is reported in.
var canonicalDays = [7]string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// dayAliases maps every recognized day token, full names included, to its
// canonical name.
var dayAliases = map[string]string{
	"monday":    "monday",
	"mon":       "monday",
	"tuesday":   "tuesday",
	"tue":       "tuesday",
	"tues":      "tuesday",
	"wednesday": "wednesday",
	"wed":       "wednesday",
	"thursday":  "thursday",
	"thu":       "thursday",
	"thur":      "thursday",
	"thurs":     "thursday",
	"friday":    "friday",
	"fri":       "friday",
	"saturday":  "saturday",
	"sat":       "saturday",
	"sunday":    "sunday",
	"sun":       "sunday",
}

// dayPatterns tolerate the character substitutions tesseract commonly makes
// on low-quality photos (0/o, 3/e, 1/l/i, @/a, v/u) plus the usual
// abbreviations on word boundaries. Matched against lower-cased text.
var dayPatterns = []struct {
	re  *regexp.Regexp
	day string
}{
	{regexp.MustCompile(`m[o0]nday|m[o0]nd[a@]y|m[o0][nm]day`), "monday"},
	{regexp.MustCompile(`tu[e3]sday|tu[e3]sd[a@]y|t[uv][e3]sday`), "tuesday"},
	{regexp.MustCompile(`w[e3]dn[e3]sday|w[e3]dn[e3]sd[a@]y|wedn[e3]sday`), "wednesday"},
	{regexp.MustCompile(`thursday|thursd[a@]y|th[uv]rsday`), "thursday"},
	{regexp.MustCompile(`friday|frid[a@]y|fr[i1l]day|fr[i1]d[a@]y`), "friday"},
	{regexp.MustCompile(`saturday|saturd[a@]y|s[a@]turday`), "saturday"},
	{regexp.MustCompile(`sunday|sund[a@]y|s[uv]nday`), "sunday"},
	{regexp.MustCompile(`\bm[o0]n\b`), "monday"},
	{regexp.MustCompile(`\btu[e3]\b`), "tuesday"},
	{regexp.MustCompile(`\btu[e3]s\b`), "tuesday"},
	{regexp.MustCompile(`\bw[e3]d\b`), "wednesday"},
	{regexp.MustCompile(`\bth[uv]\b`), "thursday"},
	{regexp.MustCompile(`\bthur\b`), "thursday"},
	{regexp.MustCompile(`\bthurs\b`), "thursday"},
	{regexp.MustCompile(`\bfr[i1l]\b`), "friday"},
	{regexp.MustCompile(`\bs[a@]t\b`), "saturday"},
	{regexp.MustCompile(`\bs[uv]n\b`), "sunday"},
}

// NormalizeDay lower-cases the token, strips everything that is not a
// letter and resolves known abbreviations to the canonical day name. Tokens
// that match no known day are returned stripped but otherwise unchanged, so
// the function never fails on odd input.
func NormalizeDay(day string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(day) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	token := b.String()
	if full, ok := dayAliases[token]; ok {
		return full
	}
	return token
}

// isCanonicalDay reports whether s is one of the seven canonical day names.
func isCanonicalDay(s string) bool {
	for _, d := range canonicalDays {
		if s == d {
			return true
		}
	}
	return false
}

// isDayToken reports whether the word, stripped and lower-cased, is one of
// the recognized day names or abbreviations.
func isDayToken(s string) bool {
	_, ok := dayAliases[NormalizeDay(s)]
	return ok
}

// DetectDays scans both the OCR word list (exact token matches) and the full
// recognized text (fuzzy patterns) for day names. The union is deduplicated
// and always returned in calendar order, Monday through Sunday, no matter
// where in the document each day was found.
func DetectDays(doc Document) []string {
	found := make(map[string]bool, len(canonicalDays))

	for _, w := range doc.Words {
		if full := NormalizeDay(w.Text); isCanonicalDay(full) {
			found[full] = true
		}
	}

	lower := strings.ToLower(doc.Text)
	for _, p := range dayPatterns {
		if p.re.MatchString(lower) {
			found[p.day] = true
		}
	}

	days := make([]string, 0, len(found))
	for _, d := range canonicalDays {
		if found[d] {
			days = append(days, d)
		}
	}
	return days
}
