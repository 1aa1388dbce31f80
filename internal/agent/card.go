// Package agent provides the shared runtime of a stage agent: the
// self-describing card, the HTTP message endpoint, and checked access to
// the tool provider.
package agent

// CardPath is the well-known location of the agent card. It doubles as the
// readiness probe polled by the launcher.
const CardPath = "/.well-known/agent-card.json"

// Version is advertised on every agent card.
const Version = "1.0.0"

// Skill describes one capability advertised on an agent card.
type Skill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Card is the agent self-description served at CardPath.
type Card struct {
	Name               string   `json:"name"`
	Version            string   `json:"version"`
	Description        string   `json:"description"`
	URL                string   `json:"url"`
	Skills             []Skill  `json:"skills"`
	DefaultInputModes  []string `json:"default_input_modes"`
	DefaultOutputModes []string `json:"default_output_modes"`
}

// NewCard fills the fields shared by every stage agent.
func NewCard(name, description, url string, skills ...Skill) Card {
	return Card{
		Name:               name,
		Version:            Version,
		Description:        description,
		URL:                url,
		Skills:             skills,
		DefaultInputModes:  []string{"application/json"},
		DefaultOutputModes: []string{"application/json"},
	}
}

// HasSkill reports whether the card advertises the given skill id.
func (c Card) HasSkill(id string) bool {
	for _, s := range c.Skills {
		if s.ID == id {
			return true
		}
	}
	return false
}
