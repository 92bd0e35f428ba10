// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no external dependencies beyond the
// rate limiter used to pace batch provider calls.
package services
