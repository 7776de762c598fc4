package rag

import (
	"fmt"
	"sort"

	"github.com/Drago-03/Documentation.AI/internal/model"
)

// BuildDocuments turns an analysis into retrieval documents. The order is fixed:
// dependencies, frameworks, endpoints, patterns, important files, languages
// (sorted by name) and the repository description.
func BuildDocuments(a *model.RepositoryAnalysis) []Document {
	docs := make([]Document, 0, 16)
	ca := a.CodeAnalysis
	for _, dep := range ca.Dependencies {
		docs = append(docs, Document{
			Type:    DocDependency,
			Content: fmt.Sprintf("Dependency: %s version %s ecosystem %s", dep.Name, dep.Version, dep.Ecosystem),
			Metadata: map[string]interface{}{
				"name":      dep.Name,
				"version":   dep.Version,
				"type":      dep.Type,
				"ecosystem": dep.Ecosystem,
			},
		})
	}
	for _, f := range ca.Frameworks {
		docs = append(docs, Document{
			Type:     DocFramework,
			Content:  fmt.Sprintf("Framework: %s used in the project", f),
			Metadata: map[string]interface{}{"name": f},
		})
	}
	for _, e := range ca.APIEndpoints {
		docs = append(docs, Document{
			Type:     DocAPIEndpoint,
			Content:  "API endpoint: " + e,
			Metadata: map[string]interface{}{"endpoint": e},
		})
	}
	for _, p := range ca.ArchitecturePatterns {
		docs = append(docs, Document{
			Type:     DocArchitecturePattern,
			Content:  "Architecture pattern: " + p,
			Metadata: map[string]interface{}{"pattern": p},
		})
	}
	for _, f := range a.FileStructure.ImportantFiles {
		docs = append(docs, Document{
			Type:     DocImportantFile,
			Content:  "Important file: " + f,
			Metadata: map[string]interface{}{"file_path": f},
		})
	}
	for _, lang := range sortedKeys(a.FileStructure.Languages) {
		count := a.FileStructure.Languages[lang]
		docs = append(docs, Document{
			Type:     DocProgrammingLanguage,
			Content:  fmt.Sprintf("Programming language: %s with %d files", lang, count),
			Metadata: map[string]interface{}{"language": lang, "file_count": count},
		})
	}
	if d := a.RepositoryInfo.Description; d != "" {
		docs = append(docs, Document{
			Type:    DocRepositoryDescription,
			Content: "Repository description: " + d,
			Metadata: map[string]interface{}{
				"name":        a.RepositoryInfo.Name,
				"full_name":   a.RepositoryInfo.FullName,
				"description": d,
			},
		})
	}
	return docs
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func metaString(d Document, key string) string {
	v, _ := d.Metadata[key].(string)
	return v
}
