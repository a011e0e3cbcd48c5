package interpreter

import (
	"testing"

	"ai-forge-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpret_HTMLResponse(t *testing.T) {
	in := New("")
	res := in.Interpret("Here is your app:\n```html\n<h1>Hi</h1>\n```\nEnjoy!", store.DerivedArtifacts{})

	assert.Equal(t, "<h1>Hi</h1>\n", res.Artifacts.PreviewArtifact)
	assert.Equal(t, "<h1>Hi</h1>\n", res.Artifacts.SourceListing)
	require.NotNil(t, res.View)
	assert.Equal(t, store.ViewPreview, *res.View)
}

func TestInterpret_NoFencesKeepsPrevious(t *testing.T) {
	prev := store.DerivedArtifacts{SourceListing: "old src", PreviewArtifact: "<p>old</p>"}
	in := New("html")

	res := in.Interpret("No code needed, just use a library.", prev)

	assert.Equal(t, prev, res.Artifacts)
	assert.Nil(t, res.View)
	assert.Equal(t, Candidate{}, res.Candidate)
}

func TestInterpret_SourceOnly(t *testing.T) {
	prev := store.DerivedArtifacts{PreviewArtifact: "<p>kept</p>"}
	in := New("html")

	res := in.Interpret("```go\npackage main\n```\n\n```\nREADME\n```", prev)

	assert.Equal(t, "<p>kept</p>", res.Artifacts.PreviewArtifact)
	assert.Equal(t, "package main\n\n\nREADME\n", res.Artifacts.SourceListing)
	require.NotNil(t, res.View)
	assert.Equal(t, store.ViewSource, *res.View)
}

func TestInterpret_SourceListingOrder(t *testing.T) {
	in := New("html")
	res := in.Interpret("a\n```css\nB1```\nb\n```js\nB2```\nc\n```html\nB3```", store.DerivedArtifacts{})

	assert.Equal(t, "B1\n\nB2\n\nB3", res.Artifacts.SourceListing)
	assert.Equal(t, "B3", res.Artifacts.PreviewArtifact)
	assert.Equal(t, store.ViewPreview, *res.View)
}

func TestInterpret_PreviewReplacesRegardlessOfPrior(t *testing.T) {
	prev := store.DerivedArtifacts{SourceListing: "x", PreviewArtifact: "<p>old</p>"}
	res := New("html").Interpret("```html\nB\n```", prev)

	assert.Equal(t, "B\n", res.Artifacts.PreviewArtifact)
	assert.Equal(t, "B\n", res.Artifacts.SourceListing)
}

func TestInterpret_EmptyBlockDoesNotOverwrite(t *testing.T) {
	prev := store.DerivedArtifacts{SourceListing: "src", PreviewArtifact: "<p>old</p>"}
	res := New("html").Interpret("```html\n```", prev)

	assert.Equal(t, prev, res.Artifacts)
	assert.Nil(t, res.View)
}

func TestInterpret_PersistsAcrossEmptyResponse(t *testing.T) {
	in := New("html")
	first := in.Interpret("```html\n<main/>\n```\n```js\nrun()\n```", store.DerivedArtifacts{})
	second := in.Interpret("Thanks, glad it works.", first.Artifacts)

	assert.Equal(t, first.Artifacts, second.Artifacts)
	assert.Equal(t, "<main/>\n\n\nrun()\n", second.Artifacts.SourceListing)
}

func TestInterpret_CustomPreviewTag(t *testing.T) {
	in := New(" svg ")
	assert.Equal(t, "svg", in.PreviewTag())

	res := in.Interpret("```html\n<p/>\n```\n```SVG\n<svg/>\n```", store.DerivedArtifacts{})
	assert.Equal(t, "<svg/>\n", res.Artifacts.PreviewArtifact)
}
