// Package render is the presentation layer: it formats a finished run's
// execution timeline and results summary for terminal output and persists
// the final package as JSON.
package render
