// ABOUTME: Decoding engine boundary used by earwax sessions
// ABOUTME: Process-wide lifecycle, verbosity and opaque decoding contexts
// Package engine is the decoding engine behind earwax sessions.
//
// It mirrors the surface of a native decoding library: a process-wide
// Initialize/Shutdown pair, Open returning an opaque Context plus a numeric
// status, per-context Info/Next/Seek/Release, and a global verbosity level.
// Contexts are not safe for concurrent use. The process-wide state is guarded
// so that repeated Initialize/Shutdown cycles from any goroutine are harmless.
package engine
