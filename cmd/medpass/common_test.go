package main

import (
	"strings"
	"testing"

	"github.com/medpass/medpass/internal/orchestrator"
)

func TestAgentSpecsCoverAllAgentsInStartupOrder(t *testing.T) {
	origCfg, origDebug := cfgFile, debug
	cfgFile, debug = "conf/medpass.json", false
	defer func() { cfgFile, debug = origCfg, origDebug }()

	addrs := orchestrator.AddressesFromEnv()
	specs := agentSpecs(addrs)

	wantNames := []string{"intake", "translate", "structure", "summarize", "referral", "orchestrate"}
	if len(specs) != len(wantNames) {
		t.Fatalf("got %d specs, want %d", len(specs), len(wantNames))
	}
	for i, want := range wantNames {
		if specs[i].Name != want {
			t.Fatalf("spec[%d].Name = %q, want %q", i, specs[i].Name, want)
		}
	}
	if specs[0].Port != 41241 || specs[5].Port != 41246 {
		t.Fatalf("ports = %d..%d, want 41241..41246", specs[0].Port, specs[5].Port)
	}

	got := strings.Join(specs[0].Args, " ")
	want := "agent intake --port 41241 --config conf/medpass.json"
	if got != want {
		t.Fatalf("args = %q, want %q", got, want)
	}
}

func TestAgentSpecsPropagateDebugFlag(t *testing.T) {
	origCfg, origDebug := cfgFile, debug
	cfgFile, debug = ".medpass/config.json", true
	defer func() { cfgFile, debug = origCfg, origDebug }()

	specs := agentSpecs(orchestrator.AddressesFromEnv())
	for _, spec := range specs {
		if spec.Args[len(spec.Args)-1] != "--debug" {
			t.Fatalf("%s args missing --debug: %v", spec.Name, spec.Args)
		}
	}
}

func TestPrintJSONKeepsUnicodeReadable(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	err := printJSON(&buf, map[string]any{
		"final_message": "PDF → a.pdf",
		"note":          "A&E referral",
		"summary":       "ألم في الصدر",
	})
	if err != nil {
		t.Fatalf("printJSON: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "PDF → a.pdf") {
		t.Fatalf("arrow was escaped: %s", out)
	}
	if !strings.Contains(out, "A&E referral") {
		t.Fatalf("ampersand was escaped: %s", out)
	}
	if !strings.Contains(out, "ألم في الصدر") {
		t.Fatalf("arabic text was escaped: %s", out)
	}
	if !strings.Contains(out, "\n  \"final_message\"") {
		t.Fatalf("output is not indented: %s", out)
	}
}
