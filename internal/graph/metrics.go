package graph

// UnresolvedReasonCounts counts the unresolved references by reason.
func (g *Graph) UnresolvedReasonCounts() map[UnresolvedReason]int {
	counts := make(map[UnresolvedReason]int)
	if g == nil {
		return counts
	}
	for _, u := range g.Unresolved {
		reason := u.Reason
		if reason == "" {
			reason = ReasonNoCandidate
		}
		counts[reason]++
	}
	return counts
}

// InDegree returns the number of pages referring to id.
func (g *Graph) InDegree(id string) int {
	n := 0
	for _, e := range g.Edges {
		if e.To == id && e.Kind == RelationRefersTo {
			n++
		}
	}
	return n
}
