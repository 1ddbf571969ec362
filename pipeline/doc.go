// Package pipeline provides the orchestration engine for the hybrid
// sequential/parallel story pipeline.
//
// A run flows through a chain of sequential stages (A, B), a fan-out/fan-in
// parallel batch (C1..C4 under the C-hub barrier), and a final sequential
// stage (D), with a timestamp record captured at every stage boundary so
// execution backends can be compared for overhead.
//
// Three pieces share the stage.Invoker capability:
//   - Runner: in-order execution with fail-fast propagation
//   - Barrier: concurrent dispatch over message snapshots with a full join
//   - Orchestrator: composes both into the stage graph and enforces the
//     complete-timestamp-set invariant before reporting success
package pipeline
