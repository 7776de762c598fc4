package model

const AnalyzerVersion = "2.0.0"

type RepositoryAnalysis struct {
	RepositoryInfo   RepositoryInfo   `json:"repository_info"`
	FileStructure    FileStructure    `json:"file_structure"`
	Technologies     Technologies     `json:"technologies"`
	CodeAnalysis     CodeAnalysis     `json:"code_analysis"`
	AnalysisMetadata AnalysisMetadata `json:"analysis_metadata"`
}

type RepositoryInfo struct {
	Name            string   `json:"name"`
	Owner           string   `json:"owner"`
	FullName        string   `json:"full_name"`
	Description     string   `json:"description"`
	HTMLURL         string   `json:"html_url"`
	CloneURL        string   `json:"clone_url"`
	Language        string   `json:"language"`
	StargazersCount int      `json:"stargazers_count"`
	ForksCount      int      `json:"forks_count"`
	OpenIssuesCount int      `json:"open_issues_count"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
	License         *string  `json:"license"`
	Topics          []string `json:"topics"`
}

func (r RepositoryInfo) LicenseName() string {
	if r.License == nil {
		return ""
	}
	return *r.License
}

type FileStructure struct {
	TotalFiles     int            `json:"total_files"`
	Languages      map[string]int `json:"languages"`
	ImportantFiles []string       `json:"important_files"`
	Directories    []string       `json:"directories"`
	Files          []string       `json:"files"`
}

type Technologies struct {
	Frameworks []string `json:"frameworks"`
	Databases  []string `json:"databases"`
	Tools      []string `json:"tools"`
	Deployment []string `json:"deployment"`
}

type Dependency struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Type      string `json:"type"`
	Ecosystem string `json:"ecosystem"`
}

type CodeAnalysis struct {
	MainLanguage         string       `json:"main_language"`
	Frameworks           []string     `json:"frameworks"`
	Dependencies         []Dependency `json:"dependencies"`
	APIEndpoints         []string     `json:"api_endpoints"`
	ArchitecturePatterns []string     `json:"architecture_patterns"`
	DatabaseUsage        []string     `json:"database_usage"`
	EntryPoints          []string     `json:"entry_points"`
}

type AnalysisMetadata struct {
	AnalyzedAt      string `json:"analyzed_at"`
	AnalyzerVersion string `json:"analyzer_version"`
}
