package persona

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON string

//go:embed default.yaml
var defaultYAML []byte

var schema = jsonschema.MustCompileString("persona.schema.json", schemaJSON)

// Parse decodes a persona YAML document and validates it against the persona
// schema. It is the canonical entry point for loading persona packs.
func Parse(data []byte) (*Persona, error) {
	// Validate the generic document first so schema errors name the field,
	// then decode into the typed struct.
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("persona parse: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("persona validate: %w", err)
	}

	var p Persona
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("persona decode: %w", err)
	}

	applyDefaults(&p)
	return &p, nil
}

// Load reads and parses a persona pack from disk.
func Load(path string) (*Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("persona load %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("persona load %s: %w", path, err)
	}
	return p, nil
}

// Default returns the built-in counselor persona.
func Default() *Persona {
	p, err := Parse(defaultYAML)
	if err != nil {
		// The embedded pack is validated by tests; failing here means the
		// binary shipped with a broken asset.
		panic(fmt.Sprintf("persona: embedded default pack invalid: %v", err))
	}
	return p
}

// applyDefaults fills fallback strings a pack left empty.
func applyDefaults(p *Persona) {
	def := defaults()
	if p.Apology == "" {
		p.Apology = def.apology
	}
	if p.SummaryFallback == "" {
		p.SummaryFallback = def.summaryFallback
	}
	if p.BriefSummaryFallback == "" {
		p.BriefSummaryFallback = def.briefFallback
	}
}

type fallbackDefaults struct {
	apology         string
	summaryFallback string
	briefFallback   string
}

func defaults() fallbackDefaults {
	return fallbackDefaults{
		apology:         "I apologize, but I'm having trouble connecting right now. Please try again later.",
		summaryFallback: "Session completed.",
		briefFallback:   "Brief conversation session completed.",
	}
}
