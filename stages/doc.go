// Package stages implements the eight content stages of the story pipeline:
// story generation (A), analysis (B), the four independent enhancement
// stages dispatched in parallel (C1 image concept, C2 audio script,
// C3 translation, C4 formatting), and final aggregation (D).
//
// All stages are pure text transformation plus an optional artificial
// delay. The delay stands in for real generation work so the parallel
// batch demonstrates a measurable speed-up over serial execution.
package stages
