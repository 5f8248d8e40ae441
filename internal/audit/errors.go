package audit

import "codeberg.org/mutker/hostctl/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrInvalidConfig
	ErrInvalidDBPath = errors.ErrorCode("audit_invalid_db_path")

	// Schema Errors
	ErrSchemaInitFailed       = errors.ErrorCode("audit_schema_init_failed")
	ErrSchemaValidationFailed = errors.ErrorCode("audit_schema_validation_failed")
	ErrSchemaMigrationFailed  = errors.ErrorCode("audit_schema_migration_failed")
	ErrTransactionFailed      = errors.ErrorCode("audit_transaction_failed")

	// Storage Errors
	ErrStorageAccess = errors.ErrorCode("audit_storage_access_failed")
	ErrStorageInit   = errors.ErrInitFailed
	ErrStorageClose  = errors.ErrShutdownFailed

	// Recording Errors
	ErrRecordFailed = errors.ErrorCode("audit_record_failed")
	ErrInvalidEntry = errors.ErrorCode("audit_invalid_entry")

	ErrOperationTimeout = errors.ErrTimeout
)
