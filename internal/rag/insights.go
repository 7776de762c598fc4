package rag

import (
	"fmt"
	"strings"
)

// documentTypeOrder keeps insight output stable regardless of map iteration.
var documentTypeOrder = []string{
	DocDependency,
	DocFramework,
	DocAPIEndpoint,
	DocArchitecturePattern,
	DocImportantFile,
	DocProgrammingLanguage,
	DocRepositoryDescription,
}

func byType(docs []Document) map[string][]Document {
	out := make(map[string][]Document)
	for _, d := range docs {
		out[d.Type] = append(out[d.Type], d)
	}
	return out
}

func semanticInsights(docs []Document) []Insight {
	groups := byType(docs)
	insights := make([]Insight, 0, 8)
	for _, t := range documentTypeOrder {
		items := groups[t]
		if len(items) <= 1 {
			continue
		}
		examples := make([]string, 0, 3)
		for i := 0; i < len(items) && i < 3; i++ {
			examples = append(examples, items[i].Content)
		}
		insights = append(insights, Insight{
			Type:        "pattern_analysis",
			Category:    t,
			Count:       len(items),
			Description: fmt.Sprintf("Found %d instances of %s", len(items), t),
			Examples:    examples,
		})
	}

	frameworks, languages := groups[DocFramework], groups[DocProgrammingLanguage]
	if len(frameworks) > 0 && len(languages) > 0 {
		insight := Insight{
			Type:            "technology_stack",
			Description:     "Technology stack analysis",
			Frameworks:      make([]string, 0, len(frameworks)),
			Languages:       make([]string, 0, len(languages)),
			StackComplexity: len(frameworks) + len(languages),
		}
		for _, d := range frameworks {
			insight.Frameworks = append(insight.Frameworks, metaString(d, "name"))
		}
		for _, d := range languages {
			insight.Languages = append(insight.Languages, metaString(d, "language"))
		}
		insights = append(insights, insight)
	}

	if deps := groups[DocDependency]; len(deps) > 0 {
		ecosystems := make(map[string]int)
		for _, d := range deps {
			eco := metaString(d, "ecosystem")
			if eco == "" {
				eco = "unknown"
			}
			ecosystems[eco]++
		}
		insights = append(insights, Insight{
			Type:              "dependency_analysis",
			Description:       "Dependency ecosystem analysis",
			TotalDependencies: len(deps),
			Ecosystems:        ecosystems,
			ComplexityScore:   float64(len(deps)) * 0.1,
		})
	}

	if endpoints := groups[DocAPIEndpoint]; len(endpoints) > 0 {
		insights = append(insights, Insight{
			Type:            "api_complexity",
			Description:     "API endpoint analysis",
			EndpointCount:   len(endpoints),
			ComplexityLevel: complexityLevel(len(endpoints)),
		})
	}
	return insights
}

func complexityLevel(endpoints int) string {
	switch {
	case endpoints > 10:
		return "high"
	case endpoints > 5:
		return "medium"
	default:
		return "low"
	}
}

var (
	backendFrameworks  = []string{"Flask", "Django", "FastAPI"}
	frontendFrameworks = []string{"React", "Vue.js", "Angular"}
	httpMethods        = []string{"GET", "POST", "PUT", "DELETE"}
	databaseKeywords   = []string{"sql", "mongo", "redis", "postgres", "mysql", "sqlite", "orm"}
)

func codePatterns(docs []Document) []CodePattern {
	groups := byType(docs)
	patterns := make([]CodePattern, 0, 4)

	var names []string
	for _, d := range groups[DocFramework] {
		names = append(names, metaString(d, "name"))
	}
	if web := intersect(names, backendFrameworks); len(web) > 0 {
		patterns = append(patterns, CodePattern{
			Pattern:     "web_framework",
			Description: "Web application framework pattern detected",
			Frameworks:  web,
			Confidence:  0.9,
		})
	}
	if spa := intersect(names, frontendFrameworks); len(spa) > 0 {
		patterns = append(patterns, CodePattern{
			Pattern:     "frontend_spa",
			Description: "Single Page Application pattern detected",
			Frameworks:  spa,
			Confidence:  0.85,
		})
	}

	if endpoints := groups[DocAPIEndpoint]; len(endpoints) > 0 {
		var methods []string
		for _, m := range httpMethods {
			needle := strings.ToLower(m)
			for _, d := range endpoints {
				if strings.Contains(strings.ToLower(d.Content), needle) {
					methods = append(methods, m)
					break
				}
			}
		}
		if len(methods) >= 2 {
			patterns = append(patterns, CodePattern{
				Pattern:     "rest_api",
				Description: "RESTful API pattern detected",
				Methods:     methods,
				Confidence:  float64(len(methods)) * 0.2,
			})
		}
	}

	for _, d := range groups[DocArchitecturePattern] {
		patterns = append(patterns, CodePattern{
			Pattern:     "architecture",
			Description: "Architecture pattern: " + metaString(d, "pattern"),
			Confidence:  0.8,
		})
	}

	var databases []string
	for _, d := range groups[DocDependency] {
		name := strings.ToLower(metaString(d, "name"))
		for _, kw := range databaseKeywords {
			if strings.Contains(name, kw) {
				databases = append(databases, metaString(d, "name"))
				break
			}
		}
	}
	if len(databases) > 0 {
		patterns = append(patterns, CodePattern{
			Pattern:     "database_integration",
			Description: "Database integration pattern detected",
			Databases:   databases,
			Confidence:  0.7,
		})
	}
	return patterns
}

// intersect keeps the items of have that appear in want, in have's order.
func intersect(have, want []string) []string {
	var out []string
	for _, h := range have {
		for _, w := range want {
			if h == w {
				out = append(out, h)
				break
			}
		}
	}
	return out
}
