package timetable

// BoundingBox is a word rectangle in image pixel coordinates,
// (X0,Y0) top-left and (X1,Y1) bottom-right.
type BoundingBox struct {
	X0 float64
	Y0 float64
	X1 float64
	Y1 float64
}

// Width returns the horizontal extent of the box.
func (b BoundingBox) Width() float64 {
	return b.X1 - b.X0
}

// XCenter returns the horizontal center of the box.
func (b BoundingBox) XCenter() float64 {
	return (b.X0 + b.X1) / 2
}

// Word is a single recognized word with its position on the image.
type Word struct {
	Text string
	BBox BoundingBox
}

// Line is a recognized line grouping. The extractors only check for its
// presence; all geometry decisions are made from the word list.
type Line struct {
	Text string
	BBox BoundingBox
}

// Document is the OCR output the extractor consumes: the full recognized
// text plus the flat word list with bounding boxes. The extractor never
// mutates it, so one Document can be shared across calls.
type Document struct {
	Text  string
	Words []Word
	Lines []Line
}

// Entry is one extracted (time slot, subject) pair. Status is always empty
// at creation; it is filled in later by the attendance workflow.
type Entry struct {
	SNo     int    `json:"sno"`
	Subject string `json:"subject"`
	Time    string `json:"time"`
	Status  string `json:"status"`
}

// Result is the outcome of one extraction call.
type Result struct {
	Timetable         []Entry  `json:"timetable"`
	Subjects          []string `json:"subjects"`
	Holiday           bool     `json:"holiday"`
	Message           string   `json:"message,omitempty"`
	DetectedDays      []string `json:"detectedDays"`
	DetectedDaysCount int      `json:"detectedDaysCount"`
	DetectedDate      string   `json:"detectedDate,omitempty"`
	ExtractionMode    string   `json:"extractionMode,omitempty"`
}

// strategyResult is what each extraction strategy hands back to the
// orchestrator. FoundHeader is only meaningful for the column strategy.
type strategyResult struct {
	entries     []Entry
	subjects    []string
	foundHeader bool
}

// distinctSubjects collects subject names in first-seen order.
func distinctSubjects(entries []Entry) []string {
	seen := make(map[string]bool, len(entries))
	subjects := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Subject == "" || seen[e.Subject] {
			continue
		}
		seen[e.Subject] = true
		subjects = append(subjects, e.Subject)
	}
	return subjects
}
