package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"escrido/internal/reftable"
	"escrido/internal/storage"
)

func TestGraph_LinkReferences(t *testing.T) {
	refs := reftable.New()
	refs.Add("add", "function_add.html")
	refs.Add("usage", "intro.html#usage")
	refs.Add("gone", "function_gone.html")

	pages := []storage.PageRecord{
		{Ident: "add", URL: "function_add.html", References: []string{"usage", "add"}},
		{Ident: "intro", URL: "intro.html", References: []string{"add", "add", "gone", "nowhere"}},
	}
	g := FromRecords(pages, refs)

	t.Run("Page and section resolution", func(t *testing.T) {
		deps := g.GetDependencies("add")
		require.Len(t, deps, 1, "self references are dropped")
		assert.Equal(t, "intro", deps[0].Page.Ident)

		deps = g.GetDependencies("intro")
		require.Len(t, deps, 1, "duplicate references link once")
		assert.Equal(t, "add", deps[0].Page.Ident)
	})

	t.Run("Dependent lookup", func(t *testing.T) {
		dependents := g.GetDependents("add")
		require.Len(t, dependents, 1)
		assert.Equal(t, "intro", dependents[0].Page.Ident)
		assert.Equal(t, 1, g.InDegree("intro"))
	})

	t.Run("Unresolved references", func(t *testing.T) {
		assert.Equal(t, []Unresolved{
			{From: "intro", Target: "gone", Reason: ReasonFiltered},
			{From: "intro", Target: "nowhere", Reason: ReasonNoCandidate},
		}, g.Unresolved)
		assert.Equal(t, map[UnresolvedReason]int{ReasonFiltered: 1, ReasonNoCandidate: 1}, g.UnresolvedReasonCounts())
	})
}

func TestGraph_WithoutResolver(t *testing.T) {
	g := FromRecords([]storage.PageRecord{
		{Ident: "a", References: []string{"b", "missing"}},
		{Ident: "b"},
		{Ident: ""},
	}, nil)

	assert.Len(t, g.Nodes, 2)
	assert.Len(t, g.Edges, 1)
	require.Len(t, g.Unresolved, 1)
	assert.Equal(t, ReasonNoCandidate, g.Unresolved[0].Reason)
}

func TestGraph_FromStoredRecords(t *testing.T) {
	g := FromStoredRecords([]storage.PageRecord{
		{Ident: "intro", Links: []string{"add", "add", "intro", "gone"}},
		{Ident: "add", References: []string{"intro"}},
	})

	require.Len(t, g.Edges, 1, "stored links are deduplicated and self links dropped")
	assert.Equal(t, Edge{From: "intro", To: "add", Kind: RelationRefersTo}, g.Edges[0])
	assert.Empty(t, g.Unresolved, "references are not resolved again")
	assert.Equal(t, 1, g.InDegree("add"))
	assert.Equal(t, 0, g.InDegree("intro"))
}
