// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: Maps text to fixed-dimension unit-norm vectors
//   - VectorIndex: Nearest-neighbour search over stored vectors
//   - ChunkStore: The persisted chunk metadata table
//   - Provider: An answer-generation backend
//
// # Optional Interfaces
//
//   - ResultStore: Evaluation artifact persistence
//   - ConfigStore: Application configuration
//
// The (VectorIndex, ChunkStore) pair may be absent entirely; services
// report domain.ErrIndexNotFound and answering continues ungrounded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
