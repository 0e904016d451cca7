// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/puppet/internal/core/domain"
)

// Executor defines the interface for executing tasks.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the workflow body of the given task.
	//
	// The inputs contain the artifacts of the task's declared requirements,
	// keyed by requirement name.
	//
	// On success the outcome carries the result to persist and any tasks
	// that must complete before the task is considered done.
	Execute(ctx context.Context, task *domain.Task, inputs domain.Inputs) (domain.Outcome, error)
}
