package errcode

const (
	TypeInvalidRequest      = "InvalidRequest"
	TypeNotFound            = "NotFound"
	TypeConflict            = "Conflict"
	TypeTooMany             = "TooManyRequests"
	TypeNotCompleted        = "JobNotCompleted"
	TypeUnavailable         = "ServiceUnavailable"
	TypeInternal            = "InternalError"
	TypeDatabase            = "DatabaseError"
	TypeRepositoryAnalysis  = "RepositoryAnalysisError"
	TypeDocumentGeneration  = "DocumentationGenerationError"
	TypePackageCreation     = "PackageCreationError"
	TypeDatabaseSave        = "DatabaseSaveError"
	TypeRepositoryNotFound  = "RepositoryNotFound"
	TypeUpstreamUnavailable = "GitHubAPIError"
)
