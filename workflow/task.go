package workflow

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TaskRecord is the execution record of one workflow step. It is created
// when the step begins execution and is immutable once terminal.
type TaskRecord struct {
	ID          string         `json:"id"`
	WorkflowID  string         `json:"workflow_id"`
	AgentID     string         `json:"agent_id"`
	TaskName    string         `json:"task_name"`
	Status      TaskStatus     `json:"status"`
	InputData   map[string]any `json:"input_data,omitempty"`
	OutputData  map[string]any `json:"output_data,omitempty"`
	Error       string         `json:"error,omitempty"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt time.Time      `json:"completed_at,omitzero"`
}

// Duration returns the elapsed execution time, or the time since start for a
// record that is not yet terminal.
func (t *TaskRecord) Duration() time.Duration {
	if t.CompletedAt.IsZero() {
		return time.Since(t.StartedAt)
	}
	return t.CompletedAt.Sub(t.StartedAt)
}

func (t *TaskRecord) clone() TaskRecord {
	clone := *t
	clone.InputData = cloneMap(t.InputData)
	clone.OutputData = cloneMap(t.OutputData)
	return clone
}

// cloneMap deep-copies the nested map/slice shapes of a payload so record
// snapshots and instance context stay isolated from agent-side mutation.
func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	clone := make(map[string]any, len(m))
	for k, v := range m {
		clone[k] = cloneValue(v)
	}
	return clone
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = cloneValue(e)
		}
		return s
	default:
		return v
	}
}

// TaskRegistry owns every task record the runtime has created. Appends and
// transitions are atomic per record, and terminal records never transition
// again (monotone state machine).
type TaskRegistry struct {
	mu    sync.RWMutex
	tasks map[string]*TaskRecord
	order []string
}

// NewTaskRegistry constructs an empty task registry.
func NewTaskRegistry() *TaskRegistry {
	return &TaskRegistry{tasks: make(map[string]*TaskRecord)}
}

// Create registers a new record in the pending state and returns its id.
func (r *TaskRegistry) Create(workflowID, agentID, taskName string, input map[string]any) string {
	rec := &TaskRecord{
		ID:         uuid.NewString(),
		WorkflowID: workflowID,
		AgentID:    agentID,
		TaskName:   taskName,
		Status:     TaskPending,
		InputData:  cloneMap(input),
		StartedAt:  time.Now(),
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[rec.ID] = rec
	r.order = append(r.order, rec.ID)
	return rec.ID
}

// MarkRunning transitions a pending record to running.
func (r *TaskRegistry) MarkRunning(id string) error {
	return r.transition(id, TaskRunning, nil, "")
}

// MarkCompleted transitions a running record to completed with its output
// snapshot.
func (r *TaskRegistry) MarkCompleted(id string, output map[string]any) error {
	return r.transition(id, TaskCompleted, output, "")
}

// MarkFailed transitions a running record to failed with its error message.
func (r *TaskRegistry) MarkFailed(id string, errMsg string) error {
	return r.transition(id, TaskFailed, nil, errMsg)
}

func (r *TaskRegistry) transition(id string, to TaskStatus, output map[string]any, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.tasks[id]
	if !ok {
		return fmt.Errorf("unknown task record: %s", id)
	}
	if rec.Status.Terminal() {
		return fmt.Errorf("task %s is already %s", id, rec.Status)
	}
	rec.Status = to
	if to.Terminal() {
		rec.CompletedAt = time.Now()
		rec.OutputData = cloneMap(output)
		rec.Error = errMsg
	}
	return nil
}

// Get returns a copy of the record, if present.
func (r *TaskRegistry) Get(id string) (TaskRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.tasks[id]
	if !ok {
		return TaskRecord{}, false
	}
	return rec.clone(), true
}

// Total returns the number of records ever created.
func (r *TaskRegistry) Total() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}

// StatusCounts returns a histogram over all records ever created, keyed by
// status name.
func (r *TaskRegistry) StatusCounts() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[string]int)
	for _, rec := range r.tasks {
		counts[rec.Status.String()]++
	}
	return counts
}
