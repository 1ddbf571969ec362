// Package message defines the data envelope threaded through the pipeline.
//
// A Message carries the original user input, one optional payload field per
// stage, a timestamp set recording every stage boundary, and open metadata.
// The shape is fixed: each stage populates only its own payload field, and
// merging parallel fragments fails loudly if two fragments claim the same
// field.
package message
