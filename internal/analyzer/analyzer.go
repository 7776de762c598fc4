// Package analyzer classifies a fetched repository with fixed heuristic tables.
package analyzer

import (
	"path"
	"sort"
	"strings"
	"time"

	"github.com/Drago-03/Documentation.AI/internal/github"
	"github.com/Drago-03/Documentation.AI/internal/model"
)

// Analyze builds the repository analysis from a snapshot. It never fails: missing
// languages fall back to extension counts and unreadable manifests are skipped.
func Analyze(snap *github.Snapshot, now time.Time) *model.RepositoryAnalysis {
	l := newListing(snap.Entries)
	files, dirs := entryNames(snap.Entries)

	languages := snap.Languages
	if len(languages) == 0 {
		languages = languagesFromExtensions(files)
	}

	info := snap.Info
	if info.Owner == "" {
		info.Owner = snap.Ref.Owner
	}
	if info.Topics == nil {
		info.Topics = []string{}
	}

	return &model.RepositoryAnalysis{
		RepositoryInfo: info,
		FileStructure: model.FileStructure{
			TotalFiles:     len(snap.Entries),
			Languages:      languages,
			ImportantFiles: importantFiles(files),
			Directories:    dirs,
			Files:          files,
		},
		Technologies: model.Technologies{
			Frameworks: applyRules(frameworkRules, l),
			Databases:  applyRules(databaseRules, l),
			Tools:      applyRules(toolRules, l),
			Deployment: applyRules(deploymentRules, l),
		},
		CodeAnalysis: analyzeCode(snap, l, languages, files),
		AnalysisMetadata: model.AnalysisMetadata{
			AnalyzedAt:      now.UTC().Format(time.RFC3339),
			AnalyzerVersion: model.AnalyzerVersion,
		},
	}
}

func newListing(entries []github.Entry) listing {
	var l listing
	for _, e := range entries {
		name := strings.ToLower(e.Name)
		switch e.Type {
		case "file":
			l.files = append(l.files, name)
		case "dir":
			l.dirs = append(l.dirs, name)
		}
	}
	return l
}

func entryNames(entries []github.Entry) (files, dirs []string) {
	files, dirs = []string{}, []string{}
	for _, e := range entries {
		switch e.Type {
		case "file":
			files = append(files, e.Name)
		case "dir":
			dirs = append(dirs, e.Name)
		}
	}
	return files, dirs
}

func importantFiles(files []string) []string {
	out := []string{}
	for _, name := range files {
		lower := strings.ToLower(name)
		for _, p := range importantPatterns {
			if strings.Contains(lower, p) {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

func languagesFromExtensions(files []string) map[string]int {
	out := map[string]int{}
	for _, name := range files {
		if lang, ok := languageExtensions[strings.ToLower(path.Ext(name))]; ok {
			out[lang]++
		}
	}
	return out
}

// mainLanguage picks the largest count; ties resolve alphabetically.
func mainLanguage(languages map[string]int, fallback string) string {
	names := make([]string, 0, len(languages))
	for name := range languages {
		names = append(names, name)
	}
	sort.Strings(names)
	best, bestCount := "", -1
	for _, name := range names {
		if languages[name] > bestCount {
			best, bestCount = name, languages[name]
		}
	}
	if best == "" {
		return fallback
	}
	return best
}

func analyzeCode(snap *github.Snapshot, l listing, languages map[string]int, files []string) model.CodeAnalysis {
	ca := model.CodeAnalysis{
		MainLanguage:         mainLanguage(languages, snap.Info.Language),
		Frameworks:           []string{},
		Dependencies:         extractDependencies(snap.Contents),
		APIEndpoints:         []string{},
		ArchitecturePatterns: applyRules(architectureRules, l),
		DatabaseUsage:        []string{},
		EntryPoints:          entryPoints(files),
	}
	for _, name := range sourceFiles(snap.Contents) {
		content := snap.Contents[name]
		for _, r := range frameworkContentRules {
			if r.match(content) {
				ca.Frameworks = appendUnique(ca.Frameworks, r.label)
			}
		}
		for _, p := range endpointPatterns {
			ca.APIEndpoints = appendUnique(ca.APIEndpoints, p.FindAllString(content, -1)...)
		}
		for _, r := range databaseContentRules {
			if r.match(content) {
				ca.DatabaseUsage = appendUnique(ca.DatabaseUsage, r.label)
			}
		}
	}
	return ca
}

func entryPoints(files []string) []string {
	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[f] = true
	}
	out := []string{}
	for _, name := range github.EntryPointFiles {
		if present[name] {
			out = append(out, name)
		}
	}
	return out
}

// sourceFiles lists fetched entry-point sources in their canonical order.
func sourceFiles(contents map[string]string) []string {
	out := []string{}
	for _, name := range github.EntryPointFiles {
		if _, ok := contents[name]; ok {
			out = append(out, name)
		}
	}
	return out
}
