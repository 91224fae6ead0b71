// Package form accumulates partial appraisal form sections in memory and
// scores per-section completion.
package form

import (
	"math"
	"sync"
)

// Fixed appraisal sections.
const (
	SectionProfile        = "profile"
	SectionTeaching       = "teaching"
	SectionResearch       = "research"
	SectionAdministrative = "administrative"
	SectionDevelopment    = "development"
)

// Sections lists the fixed section names in form order.
var Sections = []string{
	SectionProfile,
	SectionTeaching,
	SectionResearch,
	SectionAdministrative,
	SectionDevelopment,
}

// Data is one section's field map. Values may be flat or nested.
type Data map[string]any

// Aggregate collects partial section data as the user moves between form
// screens. It lives for one UI scope; it is never persisted unless the owner
// explicitly caches it through a DraftStore.
type Aggregate struct {
	mu       sync.RWMutex
	sections map[string]Data
}

// NewAggregate returns an aggregate with every fixed section empty.
func NewAggregate() *Aggregate {
	a := &Aggregate{sections: make(map[string]Data, len(Sections))}
	for _, s := range Sections {
		a.sections[s] = Data{}
	}
	return a
}

func knownSection(name string) bool {
	for _, s := range Sections {
		if s == name {
			return true
		}
	}
	return false
}

// Update shallow-merges partial into the named section: fields present in
// partial overwrite, previously set fields survive. Unknown section names are
// accepted without error but stay invisible to Snapshot and Progress.
func (a *Aggregate) Update(section string, partial Data) {
	a.mu.Lock()
	defer a.mu.Unlock()
	dst, ok := a.sections[section]
	if !ok {
		dst = Data{}
		a.sections[section] = dst
	}
	for k, v := range partial {
		dst[k] = v
	}
}

// Section returns a deep copy of the named section's current data.
func (a *Aggregate) Section(name string) Data {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if !knownSection(name) {
		return Data{}
	}
	return copyData(a.sections[name])
}

// Progress returns the rounded percentage of the section's top-level fields
// holding a filled value. Zero values like 0 and false are real answers and
// count as filled; only "" and nil do not. Empty and unknown sections score 0.
func (a *Aggregate) Progress(section string) int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if !knownSection(section) {
		return 0
	}
	data := a.sections[section]
	if len(data) == 0 {
		return 0
	}
	filled := 0
	for _, v := range data {
		if isFilled(v) {
			filled++
		}
	}
	return int(math.Round(100 * float64(filled) / float64(len(data))))
}

// Snapshot returns a deep copy of the fixed sections.
func (a *Aggregate) Snapshot() map[string]Data {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make(map[string]Data, len(Sections))
	for _, s := range Sections {
		out[s] = copyData(a.sections[s])
	}
	return out
}

func isFilled(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	}
	return true
}

func copyData(d Data) Data {
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch x := v.(type) {
	case Data:
		return copyData(x)
	case map[string]any:
		return copyData(Data(x))
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = copyValue(e)
		}
		return out
	}
	return v
}
