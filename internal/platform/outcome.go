package platform

import (
	"github.com/thoreinstein/applink/internal/patch"
)

// PatchOutcome is the result of one patch spec against one descriptor.
type PatchOutcome struct {
	File   string       `json:"file"`
	Spec   string       `json:"spec"`
	Result patch.Result `json:"result"`
}

// Outcome aggregates the results of one adapter call.
type Outcome struct {
	Platform string         `json:"platform"`
	Patches  []PatchOutcome `json:"patches"`

	// Saved lists the descriptors written, in write order.
	Saved []string `json:"saved,omitempty"`
}

// Add records one result.
func (o *Outcome) Add(file, spec string, result patch.Result) {
	o.Patches = append(o.Patches, PatchOutcome{File: file, Spec: spec, Result: result})
}

// Merge appends other's patches and saved files.
func (o *Outcome) Merge(other *Outcome) {
	if other == nil {
		return
	}
	o.Patches = append(o.Patches, other.Patches...)
	o.Saved = append(o.Saved, other.Saved...)
}

// Count returns how many patches reported result.
func (o *Outcome) Count(result patch.Result) int {
	n := 0
	for _, p := range o.Patches {
		if p.Result == result {
			n++
		}
	}
	return n
}

// Changed reports whether any patch was applied.
func (o *Outcome) Changed() bool {
	return o.Count(patch.Applied) > 0
}
