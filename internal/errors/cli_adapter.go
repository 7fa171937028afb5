package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	var ppe *PagePressError
	if errors.As(err, &ppe) {
		return a.exitCodeFromCategory(ppe)
	}

	return 1
}

// exitCodeFromCategory maps PagePressError categories to exit codes.
func (a *CLIErrorAdapter) exitCodeFromCategory(err *PagePressError) int {
	switch err.Category {
	case CategoryValidation:
		return 2 // Invalid usage
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryNotFound, CategoryMetadata, CategoryBody, CategoryMissingField:
		return 8 // Content error
	case CategoryRender, CategoryRouting, CategoryFileSystem:
		return 11 // Build error
	case CategoryState, CategoryRuntime:
		return 12 // Runtime error
	case CategoryInternal:
		return 10 // Internal error
	default:
		return 1 // General error
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	var ppe *PagePressError
	if errors.As(err, &ppe) {
		if a.verbose {
			return ppe.Error()
		}
		switch ppe.Category {
		case CategoryConfig, CategoryValidation:
			return ppe.Message
		default:
			return fmt.Sprintf("%s: %s", ppe.Category, ppe.Message)
		}
	}

	return fmt.Sprintf("Error: %v", err)
}

// HandleError processes an error and exits the program with the appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	exitCode := a.ExitCodeFor(err)
	message := a.FormatError(err)

	if a.shouldLog(err) {
		a.logError(err)
	}

	fmt.Fprintf(os.Stderr, "%s\n", message)
	os.Exit(exitCode)
}

// shouldLog determines if an error should be logged.
func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}

	var ppe *PagePressError
	if errors.As(err, &ppe) {
		return ppe.Category == CategoryInternal ||
			ppe.Category == CategoryRuntime ||
			ppe.Severity == SeverityFatal
	}

	return true
}

// logError logs an error with appropriate level and context.
func (a *CLIErrorAdapter) logError(err error) {
	var ppe *PagePressError
	if errors.As(err, &ppe) {
		level := slogLevelFromSeverity(ppe.Severity)
		attrs := []slog.Attr{
			slog.String("category", string(ppe.Category)),
		}
		a.logger.LogAttrs(nil, level, ppe.Message, attrs...)
		return
	}

	a.logger.Error("Unclassified error", "error", err)
}

// slogLevelFromSeverity converts PagePressError severity to slog level.
func slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
