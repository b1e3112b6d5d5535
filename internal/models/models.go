// package models defines the summary record and its query shapes
package models

// Placeholders substituted for null or empty fields at load time.
const (
	NoTitle    = "No Title"
	NoAuthor   = "No Author"
	NoStatus   = "Unknown"
	NoSummary  = "No summary available"
	SummaryMin = 1
	SummaryMax = 3
)

// Schema identifies which projection produced a set of rows.
type Schema int

const (
	SchemaWide   Schema = iota // nine columns including the three summaries
	SchemaNarrow               // six columns, no summaries
)

func (s Schema) String() string {
	switch s {
	case SchemaWide:
		return "wide"
	case SchemaNarrow:
		return "narrow"
	default:
		return "unknown"
	}
}

// Record is one summarized video.
//
// Records are immutable once loaded; fields are never null in memory.
type Record struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	Status       string `json:"status"`
	Transcript   string `json:"transcript"`
	Summary1     string `json:"summary1"`
	Summary2     string `json:"summary2"`
	Summary3     string `json:"summary3"`
	Link         string `json:"link"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Summary returns summary n (1-3) or [NoSummary] when it is empty or n is out of range.
func (r Record) Summary(n int) string {
	var s string
	switch n {
	case 1:
		s = r.Summary1
	case 2:
		s = r.Summary2
	case 3:
		s = r.Summary3
	}
	if s == "" {
		return NoSummary
	}
	return s
}

// HasSummaries reports whether any of the generated summaries is present.
func (r Record) HasSummaries() bool {
	return r.Summary1 != "" || r.Summary2 != "" || r.Summary3 != ""
}
