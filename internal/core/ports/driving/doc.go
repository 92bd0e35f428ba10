// Package driving defines the interfaces that front ends call INTO core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// The CLI depends on these interfaces, and core services implement them.
//
//   - RetrievalService: Similarity search over the indexed corpus
//   - AnswerService: Single-provider answering and two-provider compare
//   - EvaluationService: Batch quality evaluation against a gold set
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driving
