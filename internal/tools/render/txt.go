package render

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/medpass/medpass/internal/record"
)

// transcript renders the plain-text companion of the PDF. Summaries arrive
// already heading-stripped; risk lists are written verbatim.
func transcript(in PacketInput, summaryClinic, summaryPatient string, bundle record.Bundle) ([]byte, error) {
	var b bytes.Buffer

	b.WriteString("=== Clinical Summary ===\n")
	b.WriteString(summaryClinic + "\n\n")
	if len(in.RisksClinic) > 0 {
		b.WriteString("=== Key Risks ===\n")
		for _, r := range in.RisksClinic {
			fmt.Fprintf(&b, "- %s\n", r)
		}
		b.WriteString("\n")
	}

	b.WriteString("=== Patient Summary ===\n")
	b.WriteString(summaryPatient + "\n\n")
	if len(in.RisksPatient) > 0 {
		b.WriteString("=== Key Risks (Patient) ===\n")
		for _, r := range in.RisksPatient {
			fmt.Fprintf(&b, "- %s\n", r)
		}
		b.WriteString("\n")
	}

	b.WriteString("=== Structured Clinical Data ===\n")
	for _, line := range bundle.Bullets() {
		fmt.Fprintf(&b, "- %s\n", line)
	}

	b.WriteString("\n=== Bundle (RAW JSON) ===\n")
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(in.Record); err != nil {
		return nil, fmt.Errorf("encode record json: %w", err)
	}
	return b.Bytes(), nil
}
