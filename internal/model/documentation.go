package model

import "sort"

type Documentation struct {
	Readme            string            `json:"readme"`
	APIDocs           string            `json:"api_docs"`
	SetupGuide        string            `json:"setup_guide"`
	ArchitectureDocs  string            `json:"architecture_docs"`
	ContributingGuide string            `json:"contributing_guide"`
	Changelog         string            `json:"changelog"`
	License           string            `json:"license"`
	Gitignore         string            `json:"gitignore"`
	Dockerfile        string            `json:"dockerfile"`
	AdditionalFiles   map[string]string `json:"additional_files"`
}

// Artifact is a generated file and its path inside the package.
type Artifact struct {
	Key     string
	Path    string
	Content string
}

// Artifacts lists the documentation in package layout order. Additional files
// follow the fixed artifacts sorted by path.
func (d *Documentation) Artifacts() []Artifact {
	items := []Artifact{
		{Key: "readme", Path: "README.md", Content: d.Readme},
		{Key: "contributing_guide", Path: "CONTRIBUTING.md", Content: d.ContributingGuide},
		{Key: "changelog", Path: "CHANGELOG.md", Content: d.Changelog},
		{Key: "license", Path: "LICENSE", Content: d.License},
		{Key: "gitignore", Path: ".gitignore", Content: d.Gitignore},
		{Key: "dockerfile", Path: "Dockerfile", Content: d.Dockerfile},
		{Key: "api_docs", Path: "docs/api.md", Content: d.APIDocs},
		{Key: "setup_guide", Path: "docs/setup.md", Content: d.SetupGuide},
		{Key: "architecture_docs", Path: "docs/architecture.md", Content: d.ArchitectureDocs},
	}
	paths := make([]string, 0, len(d.AdditionalFiles))
	for p := range d.AdditionalFiles {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		items = append(items, Artifact{Key: p, Path: p, Content: d.AdditionalFiles[p]})
	}
	return items
}

// Lookup finds an artifact by key or package path.
func (d *Documentation) Lookup(name string) (Artifact, bool) {
	for _, a := range d.Artifacts() {
		if a.Key == name || a.Path == name {
			return a, true
		}
	}
	return Artifact{}, false
}

// FileCount is the number of files the package will contain, excluding the manifest.
func (d *Documentation) FileCount() int {
	return 9 + len(d.AdditionalFiles)
}
