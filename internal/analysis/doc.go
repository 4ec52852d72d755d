// Package analysis inspects per-frame series of a finished run.
package analysis
