package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Drago-03/Documentation.AI/internal/model"
)

func renderReadme(a *model.RepositoryAnalysis, s stack) string {
	info := a.RepositoryInfo
	description := info.Description
	if description == "" {
		description = "A software project hosted on GitHub."
	}
	language := info.Language
	if language == "" {
		language = "Not specified"
	}
	return renderTemplate("readme.md", map[string]string{
		"NAME":            projectName(a),
		"DESCRIPTION":     description,
		"LANGUAGE":        language,
		"STARS":           fmt.Sprint(info.StargazersCount),
		"FORKS":           fmt.Sprint(info.ForksCount),
		"OPEN_ISSUES":     fmt.Sprint(info.OpenIssuesCount),
		"FEATURES":        featuresSection(s),
		"TECH_STACK":      techStackSection(a),
		"PREREQUISITES":   prerequisitesSection(s),
		"INSTALLATION":    installationSection(a, s),
		"USAGE":           strings.TrimRight(loadTemplate("usage.md"), "\n"),
		"API_SECTION":     strings.TrimRight(apiSection(s), "\n"),
		"STRUCTURE":       structureTree(a.FileStructure),
		"LICENSE_SECTION": licenseSection(info),
		"HTML_URL":        info.HTMLURL,
	})
}

func featuresSection(s stack) string {
	var features []string
	if s.python {
		features = append(features, "- 🐍 **Python-based** - Built with Python for reliability and performance")
	}
	if s.node {
		features = append(features, "- 🟢 **Node.js** - Fast and scalable JavaScript runtime")
	}
	if s.golang {
		features = append(features, "- 🐹 **Go** - Compiled, statically typed and easy to deploy")
	}
	if s.react {
		features = append(features, "- ⚛️ **React** - Modern user interface framework")
	}
	if s.hasDeploy {
		features = append(features, "- 🐳 **Containerized** - Docker support for easy deployment")
	}
	features = append(features,
		"- 📖 **Well Documented** - Comprehensive documentation and examples",
		"- 🧪 **Tested** - Automated testing for reliability",
		"- 🔧 **Configurable** - Flexible configuration options",
	)
	return strings.Join(features, "\n")
}

func techStackSection(a *model.RepositoryAnalysis) string {
	var b strings.Builder
	if langs := a.FileStructure.Languages; len(langs) > 0 {
		names := make([]string, 0, len(langs))
		for name := range langs {
			names = append(names, name)
		}
		// largest share first, then by name
		sort.Slice(names, func(i, j int) bool {
			if langs[names[i]] != langs[names[j]] {
				return langs[names[i]] > langs[names[j]]
			}
			return names[i] < names[j]
		})
		writeList(&b, "Languages", names, "**%s**")
	}
	writeList(&b, "Frameworks & Libraries", a.Technologies.Frameworks, "%s")
	writeList(&b, "Databases", a.Technologies.Databases, "%s")
	writeList(&b, "Build Tools", a.Technologies.Tools, "%s")
	writeList(&b, "Deployment & DevOps", a.Technologies.Deployment, "%s")
	if b.Len() == 0 {
		return "Technology stack information will be updated soon."
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeList(b *strings.Builder, title string, items []string, format string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("### " + title + "\n")
	for _, item := range items {
		b.WriteString("- " + fmt.Sprintf(format, item) + "\n")
	}
	b.WriteString("\n")
}

func prerequisitesSection(s stack) string {
	var prereqs []string
	if s.python {
		prereqs = append(prereqs, "- Python 3.8 or higher", "- pip (Python package manager)")
	}
	if s.node {
		prereqs = append(prereqs, "- Node.js 16 or higher", "- npm or yarn")
	}
	if s.golang {
		prereqs = append(prereqs, "- Go 1.21 or higher")
	}
	if s.docker {
		prereqs = append(prereqs, "- Docker")
		if s.compose {
			prereqs = append(prereqs, "- Docker Compose")
		}
	}
	prereqs = append(prereqs, "- Git")
	return strings.Join(prereqs, "\n")
}

func installationSection(a *model.RepositoryAnalysis, s stack) string {
	values := map[string]string{
		"CLONE_URL":   cloneURL(a.RepositoryInfo),
		"NAME":        projectName(a),
		"ENTRY_POINT": s.entryPoint,
		"IMAGE":       s.image,
	}
	var b strings.Builder
	b.WriteString("### Quick Start\n\n")
	if s.python {
		b.WriteString(renderTemplate("install_python.md", values))
	}
	if s.node {
		b.WriteString(renderTemplate("install_node.md", values))
	}
	if s.golang {
		b.WriteString(renderTemplate("install_go.md", values))
	}
	if s.docker {
		b.WriteString(renderTemplate("install_docker.md", values))
		if s.compose {
			b.WriteString(renderTemplate("install_compose.md", values))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func cloneURL(info model.RepositoryInfo) string {
	if info.CloneURL != "" {
		return info.CloneURL
	}
	if info.HTMLURL != "" {
		return info.HTMLURL + ".git"
	}
	return "<repository-url>"
}

func apiSection(s stack) string {
	if !s.webFramework {
		return "API documentation will be added when API endpoints are implemented."
	}
	var rows strings.Builder
	for _, e := range s.endpoints {
		fmt.Fprintf(&rows, "| %s | `%s` | Detected in source |\n", endpointMethod(e), tableCell(e))
	}
	return renderTemplate("api_section.md", map[string]string{"DETECTED_ENDPOINTS": rows.String()})
}

var endpointMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE"}

// endpointMethod guesses the HTTP verb of a matched route declaration.
func endpointMethod(endpoint string) string {
	lower := strings.ToLower(endpoint)
	for _, m := range endpointMethods {
		if strings.Contains(lower, strings.ToLower(m)) {
			return m
		}
	}
	return "ANY"
}

func tableCell(s string) string {
	return strings.NewReplacer("|", `\|`, "`", "'", "\n", " ").Replace(s)
}

func structureTree(fs model.FileStructure) string {
	dirs := append([]string(nil), fs.Directories...)
	files := append([]string(nil), fs.Files...)
	sort.Strings(dirs)
	sort.Strings(files)
	var b strings.Builder
	for _, d := range dirs {
		b.WriteString("├── " + d + "/\n")
	}
	for _, f := range files {
		b.WriteString("├── " + f + "\n")
	}
	if b.Len() == 0 {
		return "└── (Project structure will be documented)"
	}
	return strings.TrimRight(b.String(), "\n")
}

func licenseSection(info model.RepositoryInfo) string {
	name := licenseLabel(info.LicenseName())
	if name == "" {
		return "License information not available. Please check the repository for license details."
	}
	return fmt.Sprintf("This project is licensed under the %s License - see the [LICENSE](LICENSE) file for details.", name)
}

// licenseLabel drops a trailing "License" so templates can append their own.
func licenseLabel(name string) string {
	name = strings.TrimSpace(name)
	return strings.TrimSpace(strings.TrimSuffix(name, "License"))
}
