// Package domain defines the core business entities for the assistant.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A retrievable fragment of a regulation document
//   - ChunkRecord: A raw row as produced by the ingest collaborator
//   - EvalItem / EvalResult: A labelled question and one scored answer
//   - ChatMessage: One turn of a provider conversation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
