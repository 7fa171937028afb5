package errors

// Convenience constructors for common error patterns

// Loader errors

func SourceNotFound(path string) *PagePressError {
	return New(CategoryNotFound, SeverityError, "source document not found").
		WithContext("path", path)
}

func MetadataParseError(path string, cause error) *PagePressError {
	return Wrap(cause, CategoryMetadata, SeverityError, "malformed metadata header").
		WithContext("path", path)
}

// Parser errors

func BodyParseError(cause error) *PagePressError {
	return Wrap(cause, CategoryBody, SeverityError, "malformed document body")
}

// Renderer errors

func UnknownNodeVariant(kind string) *PagePressError {
	return New(CategoryRender, SeverityFatal, "unknown node variant").
		WithContext("kind", kind)
}

// Router errors

func MissingField(field string) *PagePressError {
	return New(CategoryMissingField, SeverityError, "required metadata field missing").
		WithContext("field", field)
}

// Config errors

func ConfigNotFound(path string) *PagePressError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *PagePressError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Pipeline errors

func BuildFailed(stage string, cause error) *PagePressError {
	return Wrap(cause, CategoryRuntime, SeverityFatal, "build failed").
		WithContext("stage", stage)
}

func OutputWriteError(path string, cause error) *PagePressError {
	return Wrap(cause, CategoryFileSystem, SeverityError, "output write failed").
		WithContext("path", path)
}

func StateError(operation string, cause error) *PagePressError {
	return Wrap(cause, CategoryState, SeverityError, "build state operation failed").
		WithContext("operation", operation)
}
