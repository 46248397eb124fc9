// Package interpreter provides the optional text-understanding capability
// used to extract schedule entries from HTML tables whose layout does not
// match any fixed pattern.
//
// The TextInterpreter interface is implemented by a DeepSeek chat-completions
// client and by a no-op implementation used in tests and in runs without an
// API key. Callers must treat interpreter failures as non-fatal: the affected
// table is skipped and flagged, never aborting the run.
package interpreter
