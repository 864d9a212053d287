package ingest

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Aliases maps canonical field names to extra header spellings accepted
// during resolution, letting operators adapt house-specific exports
// without a rebuild.
type Aliases map[string][]string

// LoadAliases reads operator alias overrides from a YAML file shaped as:
//
//	aliases:
//	  priority_score: ["lead score", "score"]
//	  primaryEmail: ["work email"]
//
// Keys must be canonical field names.
func LoadAliases(path string) (Aliases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read aliases %s", path)
	}

	var wrapper struct {
		Aliases Aliases `yaml:"aliases"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "ingest: parse aliases")
	}

	known := make(map[string]struct{}, len(RequiredFields))
	for _, field := range RequiredFields {
		known[field] = struct{}{}
	}
	for field := range wrapper.Aliases {
		if _, ok := known[field]; !ok {
			return nil, eris.Errorf("ingest: unknown field %q in aliases file", field)
		}
	}

	return wrapper.Aliases, nil
}
