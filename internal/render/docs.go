package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/Drago-03/Documentation.AI/internal/model"
	"github.com/Drago-03/Documentation.AI/internal/rag"
)

func renderAPIDocs(a *model.RepositoryAnalysis) string {
	var detected strings.Builder
	if endpoints := a.CodeAnalysis.APIEndpoints; len(endpoints) > 0 {
		detected.WriteString("\n### Detected Endpoints\n\n")
		for _, e := range endpoints {
			detected.WriteString("- `" + tableCell(e) + "`\n")
		}
	}
	return renderTemplate("api.md", map[string]string{
		"NAME":               projectName(a),
		"DETECTED_ENDPOINTS": detected.String(),
	})
}

func renderSetupGuide(a *model.RepositoryAnalysis, s stack) string {
	return renderTemplate("setup.md", map[string]string{
		"PREREQUISITES": prerequisitesSection(s),
		"INSTALLATION":  installationSection(a, s),
	})
}

func renderArchitecture(a *model.RepositoryAnalysis, ragResult *rag.Result) string {
	description := a.RepositoryInfo.Description
	if description == "" {
		description = "System architecture documentation"
	}
	var patterns []string
	for _, p := range a.CodeAnalysis.ArchitecturePatterns {
		patterns = append(patterns, "- "+p)
	}
	if ragResult != nil && ragResult.Status == rag.StatusCompleted {
		for _, p := range ragResult.CodePatterns {
			if p.Pattern == "architecture" {
				continue
			}
			patterns = append(patterns, fmt.Sprintf("- %s (confidence %.2f)", p.Description, p.Confidence))
		}
	}
	section := "Design patterns and architectural decisions will be documented here."
	if len(patterns) > 0 {
		section = strings.Join(patterns, "\n")
	}
	return renderTemplate("architecture.md", map[string]string{
		"DESCRIPTION": description,
		"PATTERNS":    section,
	})
}

// renderLicense emits the MIT text when the repository is MIT licensed or has
// no license, and a pointer to the upstream license otherwise.
func renderLicense(a *model.RepositoryAnalysis, now time.Time) string {
	label := licenseLabel(a.RepositoryInfo.LicenseName())
	if label == "" || label == "MIT" {
		return renderTemplate("license_mit.txt", map[string]string{
			"YEAR": fmt.Sprint(now.Year()),
			"NAME": projectName(a),
		})
	}
	return renderTemplate("license_other.md", map[string]string{"LICENSE": label})
}

func renderGitignore(s stack) string {
	var b strings.Builder
	b.WriteString("# Generated .gitignore\n\n")
	if s.python {
		b.WriteString(loadTemplate("gitignore_python.txt"))
	}
	if s.node {
		b.WriteString(loadTemplate("gitignore_node.txt"))
	}
	if s.golang {
		b.WriteString(loadTemplate("gitignore_go.txt"))
	}
	b.WriteString(loadTemplate("gitignore_common.txt"))
	return b.String()
}

func renderDockerfile(s stack) string {
	switch {
	case s.python:
		return renderTemplate("dockerfile_python", map[string]string{"ENTRY_POINT": s.entryPoint})
	case s.node:
		return loadTemplate("dockerfile_node")
	default:
		return loadTemplate("dockerfile_default")
	}
}

func renderDeployment(a *model.RepositoryAnalysis, s stack) string {
	compose := ""
	if s.compose {
		compose = loadTemplate("deployment_compose.md")
	}
	return renderTemplate("deployment.md", map[string]string{
		"NAME":            projectName(a),
		"RUN_COMMAND":     s.runCommand(),
		"IMAGE":           s.image,
		"COMPOSE_SECTION": compose,
	})
}

func renderTroubleshooting(s stack) string {
	var lines []string
	if s.node {
		lines = append(lines, "# Clear package cache", "npm cache clean --force")
	}
	if s.python {
		if len(lines) > 0 {
			lines = append(lines, "# or for Python")
		} else {
			lines = append(lines, "# Clear package cache")
		}
		lines = append(lines, "pip cache purge")
	}
	if s.golang {
		lines = append(lines, "# Reset the Go module cache", "go clean -modcache")
	}
	if len(lines) == 0 {
		lines = []string{"# Clear package cache", "npm cache clean --force", "# or for Python", "pip cache purge"}
	}
	return renderTemplate("troubleshooting.md", map[string]string{
		"CACHE_CLEAN": strings.Join(lines, "\n"),
		"RUN_COMMAND": s.runCommand(),
	})
}
