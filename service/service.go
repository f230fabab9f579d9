// Package service orders the lifecycle of long-lived subsystems around the simulation
package service

import "context"

// Service defines the lifecycle interface for infrastructure subsystems
// Services manage long-lived resources: speaker, trace store, scheduler loop
//
// Lifecycle:
//  1. Construction (wired with its collaborators)
//  2. Start(ctx) - open resources, launch background goroutines
//  3. [runtime operation]
//  4. Stop() - halt goroutines, release resources
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must Start before this one
	Dependencies() []string

	Start(ctx context.Context) error

	// Stop must be idempotent
	Stop() error
}
