package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// TaskType names a workflow.
type TaskType string

// Key is the stable identity of a task: its type and the hash of its canonical parameters.
type Key string

// IdentityOf returns the key for a task type and parameter set.
// Equal canonical parameter sets always produce equal keys.
func IdentityOf(t TaskType, params ParameterSet) Key {
	h := xxhash.New()
	_, _ = h.WriteString(string(t))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(params.Canonical())
	return Key(fmt.Sprintf("%s/%016x", t, h.Sum64()))
}

// Type returns the task type part of the key.
func (k Key) Type() TaskType {
	t, _, _ := strings.Cut(string(k), "/")
	return TaskType(t)
}

// Hash returns the hash part of the key.
func (k Key) Hash() string {
	_, h, _ := strings.Cut(string(k), "/")
	return h
}

// String returns the key as a string.
func (k Key) String() string {
	return string(k)
}

// Requirement is a named declared dependency of a task.
type Requirement struct {
	Name string
	Task *Task
}

// Task is a unit of work identified by its type and parameters.
// Options are carried to the workflow but do not contribute to identity.
type Task struct {
	Type     TaskType
	Params   ParameterSet
	Options  ParameterSet
	Requires []Requirement
	Locks    []string
	// Volatile tasks run on every run: they never read or write the artifact store.
	Volatile bool
}

// Key returns the identity of the task.
func (t *Task) Key() Key {
	return IdentityOf(t.Type, t.Params)
}

// Require appends a named dependency.
func (t *Task) Require(name string, dep *Task) {
	t.Requires = append(t.Requires, Requirement{Name: name, Task: dep})
}

// CorrelationParams are the parameters used to correlate logs and spans with a task.
var CorrelationParams = []string{"account_id", "region", "portfolio", "product", "version", "name"}

// Correlation returns the correlation identifiers present in the task parameters.
func (t *Task) Correlation() map[string]string {
	out := make(map[string]string)
	for _, name := range CorrelationParams {
		if v := t.Params.String(name); v != "" {
			out[name] = v
		}
	}
	return out
}

// DisplayName returns a short human readable name for progress output.
func (t *Task) DisplayName() string {
	var parts []string
	for _, name := range CorrelationParams {
		if v := t.Params.String(name); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return string(t.Type)
	}
	return string(t.Type) + " " + strings.Join(parts, ":")
}

// Outcome is what a workflow body returns on success.
// Emitted tasks become dependencies of the emitting task and must all
// complete before its artifact is written.
type Outcome struct {
	Result  any
	Emitted []*Task
}

// Artifact is the persisted completion record of a task.
// Its existence means the task is permanently done.
type Artifact struct {
	Key       Key             `json:"key"`
	Type      TaskType        `json:"type"`
	Params    map[string]any  `json:"params"`
	Result    json.RawMessage `json:"result"`
	Timestamp time.Time       `json:"timestamp"`
}

// Decode unmarshals the artifact result into v.
func (a *Artifact) Decode(v any) error {
	if err := json.Unmarshal(a.Result, v); err != nil {
		return zerr.With(zerr.Wrap(err, ErrStoreUnmarshalFailed.Error()), "key", a.Key.String())
	}
	return nil
}

// Inputs maps requirement names to the artifacts of the required tasks.
type Inputs map[string]*Artifact

// Decode unmarshals the result of the named requirement into v.
func (in Inputs) Decode(name string, v any) error {
	a, ok := in[name]
	if !ok || a == nil {
		return zerr.With(ErrMissingInput, "input", name)
	}
	return a.Decode(v)
}
