package interpreter

import (
	"strings"

	"ai-forge-be/pkg/store"
)

// DefaultPreviewTag marks the block rendered in the live preview
const DefaultPreviewTag = "html"

// sourceSeparator puts a blank line between concatenated block bodies
const sourceSeparator = "\n\n"

// Candidate is what a single response yielded before merging
type Candidate struct {
	Preview string
	Source  string
}

// Result of interpreting one response
type Result struct {
	Artifacts store.DerivedArtifacts
	Candidate Candidate
	View      *store.View // nil means keep the current view
}

// Interpreter turns a free-form model response into display artifacts
type Interpreter struct {
	previewTag string
}

func New(previewTag string) *Interpreter {
	if strings.TrimSpace(previewTag) == "" {
		previewTag = DefaultPreviewTag
	}
	return &Interpreter{previewTag: strings.TrimSpace(previewTag)}
}

func (i *Interpreter) PreviewTag() string {
	return i.previewTag
}

// Extract runs both scans over raw without looking at previous state
func (i *Interpreter) Extract(raw string) Candidate {
	var c Candidate
	if b, ok := FirstTagged(raw, i.previewTag); ok {
		c.Preview = b.Body
	}

	blocks := ScanBlocks(raw)
	if len(blocks) > 0 {
		bodies := make([]string, len(blocks))
		for n, b := range blocks {
			bodies[n] = b.Body
		}
		c.Source = strings.Join(bodies, sourceSeparator)
	}
	return c
}

// Interpret extracts candidates from raw and merges them over prev.
// Empty candidates never overwrite a stored value.
func (i *Interpreter) Interpret(raw string, prev store.DerivedArtifacts) Result {
	c := i.Extract(raw)
	res := Result{Artifacts: prev, Candidate: c}

	if c.Preview != "" {
		res.Artifacts.PreviewArtifact = c.Preview
	}
	if c.Source != "" {
		res.Artifacts.SourceListing = c.Source
	}

	switch {
	case c.Preview != "":
		v := store.ViewPreview
		res.View = &v
	case c.Source != "":
		v := store.ViewSource
		res.View = &v
	}
	return res
}
