// Package record models the clinical record exchanged between the
// structuring, summarizer, and referral stages: a FHIR-like bundle of
// Condition, MedicationStatement, Procedure, and Observation entries.
package record

import (
	"fmt"
)

// Resource types carried in a bundle entry.
const (
	TypeCondition           = "Condition"
	TypeMedicationStatement = "MedicationStatement"
	TypeProcedure           = "Procedure"
	TypeObservation         = "Observation"
)

// Text is a free-text code wrapper, mirroring FHIR's CodeableConcept.text.
type Text struct {
	Text string `json:"text"`
}

// Resource is one typed clinical entry.
type Resource struct {
	ResourceType              string `json:"resourceType"`
	Code                      *Text  `json:"code,omitempty"`
	MedicationCodeableConcept *Text  `json:"medicationCodeableConcept,omitempty"`
	ValueString               string `json:"valueString,omitempty"`
}

// Entry wraps a resource inside a bundle.
type Entry struct {
	Resource Resource `json:"resource"`
}

// Bundle is the clinical record: an ordered collection of typed entries.
type Bundle struct {
	ResourceType string  `json:"resourceType"`
	Type         string  `json:"type"`
	Entry        []Entry `json:"entry"`
}

// New returns an empty collection bundle.
func New() Bundle {
	return Bundle{ResourceType: "Bundle", Type: "collection", Entry: []Entry{}}
}

// Bullets flattens the bundle into one display line per entry, preserving
// insertion order. Observations render as "code — value" when a value is
// present. Entries with no usable text are skipped.
func (b Bundle) Bullets() []string {
	bullets := make([]string, 0, len(b.Entry))
	for _, e := range b.Entry {
		r := e.Resource
		switch r.ResourceType {
		case TypeCondition, TypeProcedure:
			if r.Code != nil && r.Code.Text != "" {
				bullets = append(bullets, r.Code.Text)
			}
		case TypeMedicationStatement:
			if r.MedicationCodeableConcept != nil && r.MedicationCodeableConcept.Text != "" {
				bullets = append(bullets, r.MedicationCodeableConcept.Text)
			}
		case TypeObservation:
			code := ""
			if r.Code != nil {
				code = r.Code.Text
			}
			switch {
			case code != "" && r.ValueString != "":
				bullets = append(bullets, fmt.Sprintf("%s — %s", code, r.ValueString))
			case code != "":
				bullets = append(bullets, code)
			case r.ValueString != "":
				bullets = append(bullets, r.ValueString)
			}
		}
	}
	return bullets
}
