// Package stage defines the stage capability abstraction for the pipeline.
//
// A stage is a named unit of processing with the signature
// func(ctx, *message.Message) (*message.Message, error). The Invoker
// interface is the substitution point for execution backends: the Local
// invoker calls the registered function in-process, and any backend
// satisfying Invoke(ctx, name, msg) plugs in without changing the runner,
// barrier, or orchestrator. Decorators add logging and tracing per
// invocation without touching the contract.
package stage
