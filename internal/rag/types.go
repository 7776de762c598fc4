// Package rag derives retrieval documents, insights, code patterns and a
// knowledge graph from a repository analysis, and keeps a per-request vector
// index for similarity search.
package rag

const (
	StatusCompleted   = "completed"
	StatusFailed      = "failed"
	StatusUnavailable = "unavailable"
)

const (
	DocDependency            = "dependency"
	DocFramework             = "framework"
	DocAPIEndpoint           = "api_endpoint"
	DocArchitecturePattern   = "architecture_pattern"
	DocImportantFile         = "important_file"
	DocProgrammingLanguage   = "programming_language"
	DocRepositoryDescription = "repository_description"
)

type Document struct {
	Type     string                 `json:"type"`
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata"`
}

// Insight is one semantic observation. Only the fields relevant to Type are set.
type Insight struct {
	Type              string         `json:"type"`
	Category          string         `json:"category,omitempty"`
	Count             int            `json:"count,omitempty"`
	Description       string         `json:"description,omitempty"`
	Examples          []string       `json:"examples,omitempty"`
	Frameworks        []string       `json:"frameworks,omitempty"`
	Languages         []string       `json:"languages,omitempty"`
	StackComplexity   int            `json:"stack_complexity,omitempty"`
	TotalDependencies int            `json:"total_dependencies,omitempty"`
	Ecosystems        map[string]int `json:"ecosystems,omitempty"`
	ComplexityScore   float64        `json:"complexity_score,omitempty"`
	EndpointCount     int            `json:"endpoint_count,omitempty"`
	ComplexityLevel   string         `json:"complexity_level,omitempty"`
}

type CodePattern struct {
	Pattern     string   `json:"pattern"`
	Description string   `json:"description"`
	Frameworks  []string `json:"frameworks,omitempty"`
	Methods     []string `json:"methods,omitempty"`
	Databases   []string `json:"databases,omitempty"`
	Confidence  float64  `json:"confidence"`
}

type Node struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Label      string                 `json:"label"`
	Properties map[string]interface{} `json:"properties"`
}

type Edge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Type   string `json:"type"`
	Weight int    `json:"weight"`
}

type GraphMetadata struct {
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
}

type Graph struct {
	Nodes    []Node        `json:"nodes"`
	Edges    []Edge        `json:"edges"`
	Metadata GraphMetadata `json:"metadata"`
}

// Result is what a pipeline run attaches to a job. Status is never empty.
type Result struct {
	Status             string        `json:"processing_status"`
	Error              string        `json:"error,omitempty"`
	SemanticInsights   []Insight     `json:"semantic_insights"`
	CodePatterns       []CodePattern `json:"code_patterns"`
	KnowledgeGraph     *Graph        `json:"knowledge_graph"`
	DocumentCount      int           `json:"document_count"`
	EmbeddingDimension int           `json:"embedding_dimension"`
	EmbeddingModel     string        `json:"embedding_model,omitempty"`
}

// SearchHit is one ranked match; Rank starts at 1.
type SearchHit struct {
	Document        Document `json:"document"`
	SimilarityScore float64  `json:"similarity_score"`
	Rank            int      `json:"rank"`
}

func emptyResult(status string, errMsg string) *Result {
	return &Result{
		Status:           status,
		Error:            errMsg,
		SemanticInsights: []Insight{},
		CodePatterns:     []CodePattern{},
		KnowledgeGraph:   &Graph{Nodes: []Node{}, Edges: []Edge{}},
	}
}
