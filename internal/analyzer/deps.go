package analyzer

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/modfile"

	"github.com/Drago-03/Documentation.AI/internal/model"
)

const (
	depProduction  = "production"
	depDevelopment = "development"
	depIndirect    = "indirect"
)

var requirementLine = regexp.MustCompile(`^([a-zA-Z0-9\-_]+)([>=<!=]+.*)?`)

type manifestParser func(content string) ([]model.Dependency, error)

// Manifests are parsed in this order; a parse failure skips the manifest.
var manifestParsers = []struct {
	name  string
	parse manifestParser
}{
	{"package.json", parsePackageJSON},
	{"requirements.txt", parseRequirements},
	{"go.mod", parseGoMod},
	{"Cargo.toml", parseCargo},
}

func extractDependencies(contents map[string]string) []model.Dependency {
	out := []model.Dependency{}
	for _, p := range manifestParsers {
		content, ok := contents[p.name]
		if !ok {
			continue
		}
		deps, err := p.parse(content)
		if err != nil {
			continue
		}
		out = append(out, deps...)
	}
	return out
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func parsePackageJSON(content string) ([]model.Dependency, error) {
	var pkg struct {
		Dependencies    map[string]interface{} `json:"dependencies"`
		DevDependencies map[string]interface{} `json:"devDependencies"`
	}
	if err := json.Unmarshal([]byte(content), &pkg); err != nil {
		return nil, err
	}
	var out []model.Dependency
	add := func(deps map[string]interface{}, typ string) {
		for _, name := range sortedKeys(deps) {
			version, _ := deps[name].(string)
			out = append(out, model.Dependency{Name: name, Version: version, Type: typ, Ecosystem: "npm"})
		}
	}
	add(pkg.Dependencies, depProduction)
	add(pkg.DevDependencies, depDevelopment)
	return out, nil
}

func parseRequirements(content string) ([]model.Dependency, error) {
	var out []model.Dependency
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m := requirementLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		version := m[2]
		if version == "" {
			version = "latest"
		}
		out = append(out, model.Dependency{Name: m[1], Version: version, Type: depProduction, Ecosystem: "pip"})
	}
	return out, nil
}

func parseGoMod(content string) ([]model.Dependency, error) {
	f, err := modfile.ParseLax("go.mod", []byte(content), nil)
	if err != nil {
		return nil, err
	}
	out := make([]model.Dependency, 0, len(f.Require))
	for _, req := range f.Require {
		typ := depProduction
		if req.Indirect {
			typ = depIndirect
		}
		out = append(out, model.Dependency{Name: req.Mod.Path, Version: req.Mod.Version, Type: typ, Ecosystem: "go"})
	}
	return out, nil
}

func parseCargo(content string) ([]model.Dependency, error) {
	var manifest struct {
		Dependencies    map[string]interface{} `toml:"dependencies"`
		DevDependencies map[string]interface{} `toml:"dev-dependencies"`
	}
	if err := toml.Unmarshal([]byte(content), &manifest); err != nil {
		return nil, err
	}
	var out []model.Dependency
	add := func(deps map[string]interface{}, typ string) {
		for _, name := range sortedKeys(deps) {
			out = append(out, model.Dependency{Name: name, Version: cargoVersion(deps[name]), Type: typ, Ecosystem: "cargo"})
		}
	}
	add(manifest.Dependencies, depProduction)
	add(manifest.DevDependencies, depDevelopment)
	return out, nil
}

// cargoVersion reads both `dep = "1.0"` and `dep = { version = "1.0" }`.
func cargoVersion(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]interface{}:
		if s, ok := val["version"].(string); ok {
			return s
		}
	}
	return "latest"
}
