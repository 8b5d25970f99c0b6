package action

// Category groups kinds by the aspect of the document they touch.
type Category string

// Recognized categories.
const (
	CategoryObject Category = "object"
	CategoryLayout Category = "layout"
	CategoryStyle  Category = "style"
	CategorySystem Category = "system"
)

// Severity indicates how consequential a kind of mutation is.
type Severity string

// Recognized severities.
const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Classification is the derived triple attached to every action.
// It is a pure function of Kind and is never set independently.
type Classification struct {
	Category   Category `json:"category"`
	Severity   Severity `json:"severity"`
	Reversible bool     `json:"reversible"`
}

// classifications is the fixed lookup table backing Classify.
var classifications = map[Kind]Classification{
	KindCreate:    {CategoryObject, SeverityMedium, true},
	KindUpdate:    {CategoryObject, SeverityMedium, true},
	KindDelete:    {CategoryObject, SeverityHigh, true},
	KindMove:      {CategoryLayout, SeverityMedium, true},
	KindResize:    {CategoryLayout, SeverityMedium, true},
	KindRotate:    {CategoryLayout, SeverityMedium, true},
	KindStyle:     {CategoryStyle, SeverityMedium, true},
	KindGroup:     {CategoryLayout, SeverityMedium, true},
	KindUngroup:   {CategoryLayout, SeverityMedium, true},
	KindDuplicate: {CategoryObject, SeverityMedium, true},
	KindPaste:     {CategoryObject, SeverityMedium, true},
	KindCut:       {CategoryObject, SeverityHigh, true},
	KindCopy:      {CategoryObject, SeverityLow, false},
	KindUndo:      {CategorySystem, SeverityLow, false},
	KindRedo:      {CategorySystem, SeverityLow, false},
	KindBatch:     {CategorySystem, SeverityMedium, true},
}

// fallback is the classification for kinds outside the table.
var fallback = Classification{CategorySystem, SeverityLow, false}

// Classify maps a kind to its fixed classification. The mapping is total:
// unrecognized kinds map to {system, low, irreversible}.
func Classify(k Kind) Classification {
	if c, ok := classifications[k]; ok {
		return c
	}
	return fallback
}
