package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Drago-03/Documentation.AI/internal/github"
	"github.com/Drago-03/Documentation.AI/internal/model"
)

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func files(names ...string) []github.Entry {
	out := make([]github.Entry, 0, len(names))
	for _, n := range names {
		out = append(out, github.Entry{Name: n, Path: n, Type: "file"})
	}
	return out
}

func dirs(names ...string) []github.Entry {
	out := make([]github.Entry, 0, len(names))
	for _, n := range names {
		out = append(out, github.Entry{Name: n, Path: n, Type: "dir"})
	}
	return out
}

func snapshot(entries ...[]github.Entry) *github.Snapshot {
	snap := &github.Snapshot{
		Ref:      github.RepoRef{Owner: "acme", Repo: "widget"},
		Info:     model.RepositoryInfo{Name: "widget"},
		Contents: map[string]string{},
	}
	for _, e := range entries {
		snap.Entries = append(snap.Entries, e...)
	}
	return snap
}

func TestAnalyze_PythonWithDocker(t *testing.T) {
	res := Analyze(snapshot(files("requirements.txt", "Dockerfile")), fixedNow)
	require.Equal(t, []string{"Python"}, res.Technologies.Frameworks)
	require.Equal(t, []string{"Docker"}, res.Technologies.Deployment)
	require.Equal(t, []string{"requirements.txt", "Dockerfile"}, res.FileStructure.ImportantFiles)
	require.Equal(t, 2, res.FileStructure.TotalFiles)
	require.Equal(t, "acme", res.RepositoryInfo.Owner)
	require.Equal(t, "2024-05-06T07:08:09Z", res.AnalysisMetadata.AnalyzedAt)
	require.Equal(t, model.AnalyzerVersion, res.AnalysisMetadata.AnalyzerVersion)
}

func TestAnalyze_FrameworksIndependentOfOrder(t *testing.T) {
	a := Analyze(snapshot(files("package.json", "requirements.txt", "setup.py")), fixedNow)
	b := Analyze(snapshot(files("setup.py", "requirements.txt", "package.json")), fixedNow)
	require.Equal(t, []string{"Node.js", "Python"}, a.Technologies.Frameworks)
	require.Equal(t, a.Technologies, b.Technologies)
}

func TestAnalyze_FilenameRulesAreCaseInsensitive(t *testing.T) {
	res := Analyze(snapshot(files("Cargo.toml", "schema.SQL", "Makefile", "docker-compose.yaml"), dirs(".github")), fixedNow)
	require.Equal(t, []string{"Rust"}, res.Technologies.Frameworks)
	require.Equal(t, []string{"SQL Database"}, res.Technologies.Databases)
	require.Equal(t, []string{"Make"}, res.Technologies.Tools)
	require.Equal(t, []string{"Docker Compose", "GitHub Actions"}, res.Technologies.Deployment)
	require.Equal(t, []string{".github"}, res.FileStructure.Directories)
}

func TestAnalyze_LanguageFallback(t *testing.T) {
	res := Analyze(snapshot(files("a.py", "b.py", "c.js", "README.md")), fixedNow)
	require.Equal(t, map[string]int{"Python": 2, "JavaScript": 1}, res.FileStructure.Languages)
	require.Equal(t, "Python", res.CodeAnalysis.MainLanguage)

	snap := snapshot(files("a.py"))
	snap.Languages = map[string]int{"Go": 10, "Shell": 10}
	res = Analyze(snap, fixedNow)
	require.Equal(t, map[string]int{"Go": 10, "Shell": 10}, res.FileStructure.Languages)
	require.Equal(t, "Go", res.CodeAnalysis.MainLanguage)
}

func TestAnalyze_ContentRules(t *testing.T) {
	snap := snapshot(files("app.py", "requirements.txt"))
	snap.Contents["app.py"] = `from flask import Flask
from sqlalchemy import create_engine
app = Flask(__name__)

@app.route('/users')
def users():
    pass

@app.route('/users')
def again():
    pass
`
	res := Analyze(snap, fixedNow)
	require.Equal(t, []string{"Flask"}, res.CodeAnalysis.Frameworks)
	require.Equal(t, []string{"@app.route('/users'"}, res.CodeAnalysis.APIEndpoints)
	require.Equal(t, []string{"SQLAlchemy"}, res.CodeAnalysis.DatabaseUsage)
	require.Equal(t, []string{"app.py"}, res.CodeAnalysis.EntryPoints)
}

func TestAnalyze_ArchitecturePatterns(t *testing.T) {
	res := Analyze(snapshot(dirs("cmd", "internal", "packages", "models", "views")), fixedNow)
	require.Equal(t, []string{"MVC", "Monorepo", "Layered"}, res.CodeAnalysis.ArchitecturePatterns)
}

func TestExtractDependencies(t *testing.T) {
	deps := extractDependencies(map[string]string{
		"package.json":     `{"dependencies": {"express": "^4.18.0"}, "devDependencies": {"jest": "^29.0.0"}}`,
		"requirements.txt": "# comment\nflask==2.3.0\nrequests\n\n",
		"go.mod":           "module example.com/x\n\ngo 1.21\n\nrequire (\n\tgithub.com/gin-gonic/gin v1.9.1\n\tgolang.org/x/sys v0.1.0 // indirect\n)\n",
		"Cargo.toml":       "[package]\nname = \"x\"\n\n[dependencies]\nserde = { version = \"1.0\", features = [\"derive\"] }\ntokio = \"1\"\n\n[dev-dependencies]\nproptest = \"1.2\"\n",
	})
	require.Equal(t, []model.Dependency{
		{Name: "express", Version: "^4.18.0", Type: "production", Ecosystem: "npm"},
		{Name: "jest", Version: "^29.0.0", Type: "development", Ecosystem: "npm"},
		{Name: "flask", Version: "==2.3.0", Type: "production", Ecosystem: "pip"},
		{Name: "requests", Version: "latest", Type: "production", Ecosystem: "pip"},
		{Name: "github.com/gin-gonic/gin", Version: "v1.9.1", Type: "production", Ecosystem: "go"},
		{Name: "golang.org/x/sys", Version: "v0.1.0", Type: "indirect", Ecosystem: "go"},
		{Name: "serde", Version: "1.0", Type: "production", Ecosystem: "cargo"},
		{Name: "tokio", Version: "1", Type: "production", Ecosystem: "cargo"},
		{Name: "proptest", Version: "1.2", Type: "development", Ecosystem: "cargo"},
	}, deps)
}

func TestExtractDependencies_SkipsBrokenManifest(t *testing.T) {
	deps := extractDependencies(map[string]string{
		"package.json":     `{not json`,
		"requirements.txt": "django>=4",
	})
	require.Len(t, deps, 1)
	require.Equal(t, "django", deps[0].Name)
}
