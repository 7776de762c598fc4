package rag

import (
	"path"
	"strings"

	"github.com/Drago-03/Documentation.AI/internal/model"
)

const (
	rootNodeID         = "repository"
	maxDependencyNodes = 20
)

var extensionLanguages = map[string]string{
	".py":   "Python",
	".js":   "JavaScript",
	".ts":   "TypeScript",
	".java": "Java",
	".go":   "Go",
	".rs":   "Rust",
}

type graphBuilder struct {
	g    *Graph
	seen map[string]bool
}

// addNode reports false when the id is already taken; the first node wins.
func (b *graphBuilder) addNode(n Node) bool {
	if b.seen[n.ID] {
		return false
	}
	b.seen[n.ID] = true
	b.g.Nodes = append(b.g.Nodes, n)
	return true
}

func (b *graphBuilder) link(to, edgeType string, weight int) {
	b.g.Edges = append(b.g.Edges, Edge{From: rootNodeID, To: to, Type: edgeType, Weight: weight})
}

// BuildGraph links the repository to its languages, frameworks, first twenty
// dependencies and important files.
func BuildGraph(a *model.RepositoryAnalysis) *Graph {
	b := &graphBuilder{
		g:    &Graph{Nodes: []Node{}, Edges: []Edge{}},
		seen: map[string]bool{},
	}
	info := a.RepositoryInfo
	label := info.Name
	if label == "" {
		label = "Repository"
	}
	b.addNode(Node{
		ID:    rootNodeID,
		Type:  "repository",
		Label: label,
		Properties: map[string]interface{}{
			"name":      info.Name,
			"owner":     info.Owner,
			"full_name": info.FullName,
			"html_url":  info.HTMLURL,
			"language":  info.Language,
		},
	})

	for _, lang := range sortedKeys(a.FileStructure.Languages) {
		count := a.FileStructure.Languages[lang]
		id := languageNodeID(lang)
		if b.addNode(Node{ID: id, Type: "programming_language", Label: lang, Properties: map[string]interface{}{"file_count": count}}) {
			b.link(id, "uses_language", count)
		}
	}

	for _, f := range a.CodeAnalysis.Frameworks {
		id := "framework_" + strings.NewReplacer(" ", "_", ".", "_").Replace(strings.ToLower(f))
		if b.addNode(Node{ID: id, Type: "framework", Label: f, Properties: map[string]interface{}{"name": f}}) {
			b.link(id, "uses_framework", 1)
		}
	}

	deps := a.CodeAnalysis.Dependencies
	if len(deps) > maxDependencyNodes {
		deps = deps[:maxDependencyNodes]
	}
	for _, dep := range deps {
		id := "dep_" + strings.NewReplacer("-", "_", ".", "_").Replace(strings.ToLower(dep.Name))
		node := Node{
			ID:    id,
			Type:  "dependency",
			Label: dep.Name,
			Properties: map[string]interface{}{
				"name":      dep.Name,
				"version":   dep.Version,
				"type":      dep.Type,
				"ecosystem": dep.Ecosystem,
			},
		}
		if b.addNode(node) {
			b.link(id, "depends_on", 1)
		}
	}

	for _, file := range a.FileStructure.ImportantFiles {
		id := "file_" + strings.NewReplacer("/", "_", ".", "_").Replace(file)
		if !b.addNode(Node{ID: id, Type: "file", Label: file, Properties: map[string]interface{}{"path": file}}) {
			continue
		}
		b.link(id, "contains_file", 1)
		lang, ok := extensionLanguages[strings.ToLower(path.Ext(file))]
		if !ok {
			continue
		}
		if langID := "lang_" + strings.ToLower(lang); b.seen[langID] {
			b.g.Edges = append(b.g.Edges, Edge{From: id, To: langID, Type: "written_in", Weight: 1})
		}
	}

	b.g.Metadata = GraphMetadata{NodeCount: len(b.g.Nodes), EdgeCount: len(b.g.Edges)}
	return b.g
}

func languageNodeID(lang string) string {
	return "lang_" + strings.ReplaceAll(strings.ToLower(lang), " ", "_")
}
