package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError
	WriteFileError

	// Logging errors
	CreateLogFileError
	RotateLogFileError

	// Database errors
	DBConnectionError
	DBTableCheckError
	DBEmptyDatabaseError
	DBNotConnectedError
	DBQueryTablesError
	DBScanTableError
	DBDropTableError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError
	SchemaIndexError

	// Store errors
	StoreReadError
	StoreWriteError
	StoreConstraintError

	// Source file errors
	SourceOpenError
	SourceReadError

	// Load errors
	LoadCancelledError
	LoadRecordsFailedError
	LoadFlushError
	LoadStaleDeleteError
	LoadResolveError

	// Data quality problems
	DataQualityError

	// Annotate errors
	AnnotateTermIndexError
	AnnotateReconcileError
	AnnotateStaleDeleteError
	AnnotateCancelledError
)
