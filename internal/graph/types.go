package graph

type RelationKind string

const (
	// RelationRefersTo links a page to a page it mentions with @ref or @see.
	RelationRefersTo RelationKind = "refers_to"
)

type UnresolvedReason string

const (
	ReasonNoCandidate UnresolvedReason = "no_candidate"
	ReasonFiltered    UnresolvedReason = "page_filtered"
)

// Unresolved is a reference the graph could not link.
type Unresolved struct {
	From   string           `json:"from"`
	Target string           `json:"target"`
	Reason UnresolvedReason `json:"reason"`
}
