// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The retrieval pipeline lives here: context resolution, retrieval and
// scoring, answer orchestration, and ingestion.
package services
