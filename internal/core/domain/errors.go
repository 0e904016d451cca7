package domain

import "go.trai.ch/zerr"

var (
	// ErrTaskAlreadyExists is returned when attempting to add a task whose identity is already in the graph.
	ErrTaskAlreadyExists = zerr.New("task already exists")

	// ErrMissingDependency is returned when a task references a dependency that doesn't exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the task dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTaskNotFound is returned when a requested task is not found in the graph.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrUnsupportedParameter is returned when a parameter value has a type that cannot be canonicalized.
	ErrUnsupportedParameter = zerr.New("unsupported parameter value")

	// ErrMissingInput is returned when a workflow body asks for a dependency result that was not provided.
	ErrMissingInput = zerr.New("missing task input")

	// ErrUnknownTaskType is returned when no workflow is registered for a task type.
	ErrUnknownTaskType = zerr.New("unknown task type")

	// ErrNotFound is returned when a name cannot be resolved in the target account and region.
	ErrNotFound = zerr.New("resource not found")

	// ErrRemoteOperationFailed is returned when a control plane call or a remote job ends in a failure state.
	ErrRemoteOperationFailed = zerr.New("remote operation failed")

	// ErrPreconditionViolated is returned when a task's inputs are inconsistent before any remote call is made.
	ErrPreconditionViolated = zerr.New("precondition violated")

	// ErrStoreCreateFailed is returned when the artifact store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create artifact store directory")

	// ErrStoreReadFailed is returned when an artifact cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read artifact")

	// ErrStoreUnmarshalFailed is returned when an artifact cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal artifact")

	// ErrStoreMarshalFailed is returned when an artifact cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal artifact")

	// ErrStoreWriteFailed is returned when an artifact cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write artifact")

	// ErrStoreDeleteFailed is returned when an artifact cannot be removed.
	ErrStoreDeleteFailed = zerr.New("failed to delete artifact")

	// ErrConfigReadFailed is returned when the manifest file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read manifest")

	// ErrConfigParseFailed is returned when the manifest file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse manifest")

	// ErrConfigInvalid is returned when the manifest parses but describes an invalid deployment.
	ErrConfigInvalid = zerr.New("invalid manifest")

	// ErrRunFailed is returned when at least one task of a run failed.
	ErrRunFailed = zerr.New("run failed")

	// ErrTaskExecutionFailed is returned when a task execution fails.
	ErrTaskExecutionFailed = zerr.New("task execution failed")

	// ErrEmittedTaskFailed is returned when a task emitted by a running workflow fails or is cancelled.
	ErrEmittedTaskFailed = zerr.New("emitted task failed")

	// ErrLockAcquireFailed is returned when named resource locks cannot be acquired.
	ErrLockAcquireFailed = zerr.New("failed to acquire resource locks")

	// ErrTemplateNotFound is returned when a template name is not known to the renderer.
	ErrTemplateNotFound = zerr.New("template not found")

	// ErrTemplateRenderFailed is returned when a template cannot be rendered.
	ErrTemplateRenderFailed = zerr.New("failed to render template")
)
