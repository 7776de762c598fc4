// Package render turns a repository analysis into the documentation bundle.
// Output depends only on the analysis, the optional retrieval result and the
// supplied clock.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/Drago-03/Documentation.AI/internal/model"
	"github.com/Drago-03/Documentation.AI/internal/rag"
)

//go:embed templates/*
var templateFS embed.FS

var templateVarsRegex = regexp.MustCompile(`\{\{\s*([A-Z0-9_]+)\s*\}\}`)

func loadTemplate(name string) string {
	data, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		panic(fmt.Sprintf("render: missing template %s", name))
	}
	return string(data)
}

// applyVars replaces {{KEY}} placeholders. Unknown keys render empty.
func applyVars(content string, values map[string]string) string {
	return templateVarsRegex.ReplaceAllStringFunc(content, func(token string) string {
		match := templateVarsRegex.FindStringSubmatch(token)
		if len(match) < 2 {
			return token
		}
		return values[match[1]]
	})
}

func renderTemplate(name string, values map[string]string) string {
	return applyVars(loadTemplate(name), values)
}

// Generate renders every artifact of the bundle. The license year and the
// changelog release date come from now.
func Generate(a *model.RepositoryAnalysis, ragResult *rag.Result, now time.Time) (*model.Documentation, error) {
	if a == nil {
		return nil, fmt.Errorf("analysis is required")
	}
	s := newStack(a)
	workflow, err := renderWorkflow(s)
	if err != nil {
		return nil, fmt.Errorf("render ci workflow: %w", err)
	}
	return &model.Documentation{
		Readme:            renderReadme(a, s),
		APIDocs:           renderAPIDocs(a),
		SetupGuide:        renderSetupGuide(a, s),
		ArchitectureDocs:  renderArchitecture(a, ragResult),
		ContributingGuide: renderTemplate("contributing.md", map[string]string{"NAME": projectName(a)}),
		Changelog: renderTemplate("changelog.md", map[string]string{
			"NAME": projectName(a),
			"DATE": now.Format("2006-01-02"),
		}),
		License:    renderLicense(a, now),
		Gitignore:  renderGitignore(s),
		Dockerfile: renderDockerfile(s),
		AdditionalFiles: map[string]string{
			".github/workflows/ci.yml": workflow,
			"docs/deployment.md":       renderDeployment(a, s),
			"docs/troubleshooting.md":  renderTroubleshooting(s),
		},
	}, nil
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// HTML converts a markdown artifact for preview. Raw HTML in the source is
// omitted since artifacts embed repository metadata.
func HTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

func projectName(a *model.RepositoryAnalysis) string {
	if name := strings.TrimSpace(a.RepositoryInfo.Name); name != "" {
		return name
	}
	return "Project"
}

func imageName(a *model.RepositoryAnalysis) string {
	name := strings.ToLower(strings.TrimSpace(a.RepositoryInfo.Name))
	if name == "" {
		return "project-name"
	}
	return name
}
