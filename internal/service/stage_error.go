package service

import (
	"fmt"
	"time"

	"github.com/Drago-03/Documentation.AI/internal/pkg/errcode"
)

const (
	StageCreate        = "create_job"
	StageAnalysis      = "repository_analysis"
	StageDocumentation = "documentation_generation"
	StagePackage       = "package_creation"
	StageSave          = "save_results"
)

var stageMessages = map[string]string{
	StageCreate:        "Failed to create analysis job",
	StageAnalysis:      "Repository analysis failed",
	StageDocumentation: "Documentation generation failed",
	StagePackage:       "Package creation failed",
	StageSave:          "Failed to save results",
}

var stageTypes = map[string]string{
	StageCreate:        errcode.TypeDatabase,
	StageAnalysis:      errcode.TypeRepositoryAnalysis,
	StageDocumentation: errcode.TypeDocumentGeneration,
	StagePackage:       errcode.TypePackageCreation,
	StageSave:          errcode.TypeDatabaseSave,
}

// StageError reports which pipeline stage failed. JobID is zero when no job
// row was created.
type StageError struct {
	Stage   string
	JobID   int64
	ErrorID string
	Err     error
}

func (e *StageError) Error() string {
	return stageMessages[e.Stage] + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func (e *StageError) Type() string {
	return stageTypes[e.Stage]
}

// NewErrorID renders the correlation id logged with a failure, e.g.
// 20250314_093000_123456.
func NewErrorID(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s_%06d", t.Format("20060102_150405"), t.Nanosecond()/1000)
}
