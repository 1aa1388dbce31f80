package llm

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var promptsYAML []byte

// promptSet is the instruction registry for the LLM-backed tools.
type promptSet struct {
	Translate string `yaml:"translate"`
	Structure string `yaml:"structure"`
	Summarize string `yaml:"summarize"`
}

var prompts = mustParsePrompts(promptsYAML)

func mustParsePrompts(data []byte) promptSet {
	var p promptSet
	if err := yaml.Unmarshal(data, &p); err != nil {
		panic(fmt.Sprintf("parse embedded prompts.yaml: %v", err))
	}
	for name, text := range map[string]string{
		"translate": p.Translate,
		"structure": p.Structure,
		"summarize": p.Summarize,
	} {
		if strings.TrimSpace(text) == "" {
			panic(fmt.Sprintf("embedded prompts.yaml: %s instructions are empty", name))
		}
	}
	return p
}

// TranslateInstructions returns the system instructions for the translate tool.
func TranslateInstructions() string { return strings.TrimSpace(prompts.Translate) }

// StructureInstructions returns the system instructions for the
// structure_to_record tool.
func StructureInstructions() string { return strings.TrimSpace(prompts.Structure) }

// SummarizeInstructions returns the system instructions for the
// summarize_with_risks tool.
func SummarizeInstructions() string { return strings.TrimSpace(prompts.Summarize) }
