package core

// Summary attribute names, in the order the extraction pipeline emits them.
const (
	AttrModelName          = "Model Name"
	AttrLastModified       = "Last Modified"
	AttrTotalSize          = "Total Size of Model"
	AttrTables             = "Number of Tables"
	AttrPartitions         = "Number of Partitions"
	AttrMaxRowCount        = "Max Row Count of Biggest Table"
	AttrTotalColumns       = "Total Columns"
	AttrTotalMeasures      = "Total Measures"
	AttrTotalRelationships = "Total Relationships"
)

// Sentinel values used when a metric cannot be derived.
const (
	Unknown          = "Unknown"
	NotAvailable     = "Not Available"
	SizeNotAvailable = "Size not available"
)

// ModelSummary is an ordered list of (attribute, value) pairs describing the whole model.
// Attribute[i] belongs to Value[i]; the order is display-significant.
type ModelSummary struct {
	Attribute []string `json:"attribute" yaml:"attribute"`
	Value     []string `json:"value" yaml:"value"`
}

// SummaryPair is one attribute of a ModelSummary.
type SummaryPair struct {
	Attribute string `json:"attribute" yaml:"attribute"`
	Value     string `json:"value" yaml:"value"`
}

// Add appends an attribute, keeping both sequences aligned.
func (s *ModelSummary) Add(attribute, value string) {
	s.Attribute = append(s.Attribute, attribute)
	s.Value = append(s.Value, value)
}

// Get returns the value of the first attribute with the given name.
func (s ModelSummary) Get(attribute string) (string, bool) {
	for i, a := range s.Attribute {
		if a == attribute && i < len(s.Value) {
			return s.Value[i], true
		}
	}
	return "", false
}

// Len returns the number of attributes.
func (s ModelSummary) Len() int {
	return len(s.Attribute)
}

// Pairs returns the attributes as pairs, in order.
func (s ModelSummary) Pairs() []SummaryPair {
	pairs := make([]SummaryPair, 0, len(s.Attribute))
	for i, a := range s.Attribute {
		v := ""
		if i < len(s.Value) {
			v = s.Value[i]
		}
		pairs = append(pairs, SummaryPair{Attribute: a, Value: v})
	}
	return pairs
}
