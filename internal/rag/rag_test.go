package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Drago-03/Documentation.AI/internal/ai"
	"github.com/Drago-03/Documentation.AI/internal/model"
)

func sampleAnalysis() *model.RepositoryAnalysis {
	return &model.RepositoryAnalysis{
		RepositoryInfo: model.RepositoryInfo{Name: "demo", Owner: "octo", FullName: "octo/demo", Description: "A demo service"},
		FileStructure: model.FileStructure{
			Languages:      map[string]int{"Python": 1200, "JavaScript": 300},
			ImportantFiles: []string{"README.md", "requirements.txt", "app.py"},
		},
		CodeAnalysis: model.CodeAnalysis{
			Frameworks: []string{"Flask", "React"},
			Dependencies: []model.Dependency{
				{Name: "flask", Version: "==2.0", Type: "production", Ecosystem: "pip"},
				{Name: "psycopg2-binary", Version: "latest", Type: "production", Ecosystem: "pip"},
				{Name: "react", Version: "^18.0.0", Type: "production", Ecosystem: "npm"},
			},
			APIEndpoints:         []string{"@app.route('/users', methods=['GET'])", "@app.route('/users', methods=['POST'])"},
			ArchitecturePatterns: []string{"MVC"},
		},
	}
}

func hashEmbedder(t *testing.T) ai.IEmbedder {
	p, err := ai.NewEmbedProvider("hash", map[string]interface{}{"dimension": 128})
	require.NoError(t, err)
	return ai.NewEmbedder(p, "fnv")
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	return nil, errors.New("quota exceeded")
}

func (failingEmbedder) ModelName() string {
	return "broken:model"
}

func TestBuildDocuments(t *testing.T) {
	docs := BuildDocuments(sampleAnalysis())
	require.Len(t, docs, 3+2+2+1+3+2+1)
	require.Equal(t, "Dependency: flask version ==2.0 ecosystem pip", docs[0].Content)
	require.Equal(t, "Framework: Flask used in the project", docs[3].Content)
	require.Equal(t, "Programming language: JavaScript with 300 files", docs[11].Content)
	require.Equal(t, DocRepositoryDescription, docs[len(docs)-1].Type)
}

func TestSemanticInsights(t *testing.T) {
	insights := semanticInsights(BuildDocuments(sampleAnalysis()))
	byKind := map[string][]Insight{}
	for _, in := range insights {
		byKind[in.Type] = append(byKind[in.Type], in)
	}
	require.Len(t, byKind["pattern_analysis"], 5)
	first := byKind["pattern_analysis"][0]
	require.Equal(t, DocDependency, first.Category)
	require.Equal(t, "Found 3 instances of dependency", first.Description)
	require.Len(t, first.Examples, 3)

	stack := byKind["technology_stack"][0]
	require.Equal(t, 4, stack.StackComplexity)

	deps := byKind["dependency_analysis"][0]
	require.Equal(t, 3, deps.TotalDependencies)
	require.Equal(t, map[string]int{"pip": 2, "npm": 1}, deps.Ecosystems)
	require.InDelta(t, 0.3, deps.ComplexityScore, 1e-9)

	require.Equal(t, "low", byKind["api_complexity"][0].ComplexityLevel)
}

func TestComplexityLevel(t *testing.T) {
	require.Equal(t, "low", complexityLevel(5))
	require.Equal(t, "medium", complexityLevel(6))
	require.Equal(t, "medium", complexityLevel(10))
	require.Equal(t, "high", complexityLevel(11))
}

func TestCodePatterns(t *testing.T) {
	patterns := codePatterns(BuildDocuments(sampleAnalysis()))
	byName := map[string]CodePattern{}
	for _, p := range patterns {
		byName[p.Pattern] = p
	}
	require.Equal(t, []string{"Flask"}, byName["web_framework"].Frameworks)
	require.Equal(t, []string{"React"}, byName["frontend_spa"].Frameworks)
	require.Equal(t, []string{"GET", "POST"}, byName["rest_api"].Methods)
	require.InDelta(t, 0.4, byName["rest_api"].Confidence, 1e-9)
	require.Equal(t, "Architecture pattern: MVC", byName["architecture"].Description)
	require.Equal(t, []string{"psycopg2-binary"}, byName["database_integration"].Databases)
}

func TestCodePatterns_RestNeedsTwoMethods(t *testing.T) {
	a := sampleAnalysis()
	a.CodeAnalysis.APIEndpoints = []string{"@app.get('/only')"}
	for _, p := range codePatterns(BuildDocuments(a)) {
		require.NotEqual(t, "rest_api", p.Pattern)
	}
}

func TestBuildGraph(t *testing.T) {
	a := sampleAnalysis()
	a.FileStructure.ImportantFiles = append(a.FileStructure.ImportantFiles, "app.py")
	g := BuildGraph(a)

	ids := map[string]bool{}
	for _, n := range g.Nodes {
		require.False(t, ids[n.ID], "duplicate node %s", n.ID)
		ids[n.ID] = true
	}
	require.True(t, ids["repository"])
	require.True(t, ids["lang_python"])
	require.True(t, ids["framework_react"])
	require.True(t, ids["dep_psycopg2_binary"])
	require.True(t, ids["file_app_py"])
	require.True(t, ids["file_README_md"])
	require.Contains(t, g.Edges, Edge{From: "file_app_py", To: "lang_python", Type: "written_in", Weight: 1})
	require.Contains(t, g.Edges, Edge{From: "repository", To: "lang_python", Type: "uses_language", Weight: 1200})
	require.Equal(t, len(g.Nodes), g.Metadata.NodeCount)
	require.Equal(t, len(g.Edges), g.Metadata.EdgeCount)
}

func TestBuildGraph_CapsDependencies(t *testing.T) {
	a := &model.RepositoryAnalysis{}
	for i := 0; i < 30; i++ {
		a.CodeAnalysis.Dependencies = append(a.CodeAnalysis.Dependencies, model.Dependency{Name: "pkg" + string(rune('a'+i))})
	}
	g := BuildGraph(a)
	require.Equal(t, 1+maxDependencyNodes, g.Metadata.NodeCount)
}

func TestFlatIndex(t *testing.T) {
	idx := newFlatIndex(2)
	require.NoError(t, idx.Add([]float32{1, 0}))
	require.NoError(t, idx.Add([]float32{0, 1}))
	require.Error(t, idx.Add([]float32{1}))

	hits, err := idx.Search([]float32{0, 1}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	require.Equal(t, 1, hits[0].index)
	require.InDelta(t, 0, hits[0].distance, 1e-9)
	require.InDelta(t, 2, hits[1].distance, 1e-9)
}

func TestPipeline_Unavailable(t *testing.T) {
	p := NewPipeline(nil)
	require.False(t, p.Available())
	res := p.Process(context.Background(), sampleAnalysis())
	require.Equal(t, StatusUnavailable, res.Status)
	require.Empty(t, res.CodePatterns)
	require.NotNil(t, res.KnowledgeGraph)
}

func TestPipeline_Process(t *testing.T) {
	p := NewPipeline(hashEmbedder(t))
	require.True(t, p.Available())
	res := p.Process(context.Background(), sampleAnalysis())
	require.Equal(t, StatusCompleted, res.Status)
	require.Equal(t, 14, res.DocumentCount)
	require.Equal(t, 128, res.EmbeddingDimension)
	require.Equal(t, "hash:fnv", res.EmbeddingModel)
	require.NotEmpty(t, res.KnowledgeGraph.Nodes)
}

func TestPipeline_EmbedFailureDegrades(t *testing.T) {
	res := NewPipeline(failingEmbedder{}).Process(context.Background(), sampleAnalysis())
	require.Equal(t, StatusFailed, res.Status)
	require.Contains(t, res.Error, "quota exceeded")
	require.Zero(t, res.DocumentCount)
	require.Empty(t, res.SemanticInsights)
}

func TestSession_Search(t *testing.T) {
	s := NewPipeline(hashEmbedder(t)).NewSession()
	ctx := context.Background()
	require.NoError(t, s.Index(ctx, sampleAnalysis()))

	hits, err := s.Search(ctx, "Framework: Flask used in the project", 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	require.Equal(t, 1, hits[0].Rank)
	require.Equal(t, "Framework: Flask used in the project", hits[0].Document.Content)
	require.InDelta(t, 1.0, hits[0].SimilarityScore, 1e-5)
	require.GreaterOrEqual(t, hits[0].SimilarityScore, hits[1].SimilarityScore)
}

func TestSession_SearchEmpty(t *testing.T) {
	s := NewPipeline(hashEmbedder(t)).NewSession()
	hits, err := s.Search(context.Background(), "anything", 0)
	require.NoError(t, err)
	require.Empty(t, hits)
}
