package orchestrator

import (
	"fmt"
	"os"
)

// Fixed listen ports, one per stage, orchestrator last.
const (
	PortIntake       = 41241
	PortTranslation  = 41242
	PortStructuring  = 41243
	PortSummarizer   = 41244
	PortReferral     = 41245
	PortOrchestrator = 41246
)

// Addresses holds the base URL of every agent in the workflow.
type Addresses struct {
	Intake       string
	Translation  string
	Structuring  string
	Summarizer   string
	Referral     string
	Orchestrator string
}

// AddressesFromEnv resolves each agent address from its environment variable,
// falling back to the fixed local port.
func AddressesFromEnv() Addresses {
	return Addresses{
		Intake:       envOr("INTAKE_URL", localURL(PortIntake)),
		Translation:  envOr("TRANSLATE_URL", localURL(PortTranslation)),
		Structuring:  envOr("STRUCTURE_URL", localURL(PortStructuring)),
		Summarizer:   envOr("SUMMARIZER_URL", localURL(PortSummarizer)),
		Referral:     envOr("REFERRAL_URL", localURL(PortReferral)),
		Orchestrator: envOr("ORCHESTRATOR_URL", localURL(PortOrchestrator)),
	}
}

func localURL(port int) string {
	return fmt.Sprintf("http://127.0.0.1:%d", port)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
