package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/agentwire/core"
	"github.com/hupe1980/agentwire/logging"
	"github.com/hupe1980/agentwire/orchestrator"
)

// Options configures a Runtime.
type Options struct {
	// Async executes workflow instances on their own goroutine. The instance
	// id returned by ExecuteWorkflow is valid for status queries either way;
	// use Wait to block until an async instance reaches a terminal state.
	Async bool

	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Runtime executes configured workflows against agents registered with an
// Orchestrator. Independent instances may run concurrently with each other
// and with direct message sends; within one instance steps always execute
// strictly sequentially because each step's input may depend on the previous
// step's output.
type Runtime struct {
	orch   *orchestrator.Orchestrator
	tasks  *TaskRegistry
	async  bool
	logger logging.Logger

	mu        sync.RWMutex
	config    *Config
	bound     map[string]bool
	instances map[string]*instance
}

// New creates a workflow runtime on top of an existing orchestrator.
func New(orch *orchestrator.Orchestrator, optFns ...func(o *Options)) *Runtime {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Runtime{
		orch:      orch,
		tasks:     NewTaskRegistry(),
		async:     opts.Async,
		logger:    opts.Logger,
		bound:     make(map[string]bool),
		instances: make(map[string]*instance),
	}
}

// LoadConfig loads and validates a workflow configuration file. Loading
// replaces any previously loaded configuration; running instances are not
// affected because each holds its own copy of its definition.
func (r *Runtime) LoadConfig(path string) error {
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	r.UseConfig(cfg)
	return nil
}

// UseConfig installs an already-validated configuration.
func (r *Runtime) UseConfig(cfg *Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.config = cfg
	r.logger.Info("workflow.config.loaded", "workflows", len(cfg.Workflows))
}

// RegisterAgent binds a live agent capability to an id referenced by the
// loaded configuration and registers it with the orchestrator. Binding an id
// that no loaded workflow references fails with *UnknownAgentIDError. An
// agent already registered with the orchestrator under the same id is bound
// without re-registration.
func (r *Runtime) RegisterAgent(id string, agent core.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.config == nil {
		return ErrNoConfig
	}
	if !r.config.AgentIDs()[id] {
		return &UnknownAgentIDError{ID: id}
	}

	if err := r.orch.RegisterAgent(id, agent); err != nil && !errors.Is(err, core.ErrDuplicateAgent) {
		return err
	}
	r.bound[id] = true
	return nil
}

// ExecuteWorkflow starts the named workflow with the given initial input and
// returns the new instance id. The instance is registered before return, so
// the id is immediately valid for WorkflowStatus and Wait. With Async unset
// the call blocks until the instance reaches a terminal state.
func (r *Runtime) ExecuteWorkflow(ctx context.Context, name string, initialInput map[string]any) (string, error) {
	r.mu.Lock()
	if r.config == nil {
		r.mu.Unlock()
		return "", ErrNoConfig
	}
	wf, ok := r.config.Get(name)
	if !ok {
		r.mu.Unlock()
		return "", &UnknownWorkflowError{Name: name}
	}

	inst := &instance{
		id:        uuid.NewString(),
		name:      name,
		status:    InstanceCreated,
		context:   cloneMap(initialInput),
		startedAt: time.Now(),
		done:      make(chan struct{}),
	}
	if inst.context == nil {
		inst.context = map[string]any{}
	}
	r.instances[inst.id] = inst
	r.mu.Unlock()

	r.logger.Info("workflow.execute.started",
		"workflow", name, "instance_id", inst.id, "steps", len(wf.Steps))

	if r.async {
		// Detach from the caller's cancellation; the instance outlives the
		// ExecuteWorkflow call.
		go r.run(context.WithoutCancel(ctx), inst, wf, initialInput)
	} else {
		r.run(ctx, inst, wf, initialInput)
	}
	return inst.id, nil
}

// run executes all steps of one instance sequentially. Fail-fast: the first
// failed step terminates the instance without attempting subsequent steps.
func (r *Runtime) run(ctx context.Context, inst *instance, wf Workflow, initialInput map[string]any) {
	defer close(inst.done)
	inst.setStatus(InstanceRunning)
	start := time.Now()

	// deliveries holds routed output fields keyed by the consuming
	// agent/task pair, pending until that step executes.
	deliveries := map[string]map[string]any{}

	for i, step := range wf.Steps {
		input := cloneMap(step.Input)
		if input == nil {
			input = map[string]any{}
		}
		if i == 0 {
			for k, v := range initialInput {
				input[k] = v
			}
		}
		// Routed fields override the static template on key collision
		// (last-writer-wins).
		if fields, ok := deliveries[stepKey(step.Agent, step.Task)]; ok {
			for k, v := range fields {
				input[k] = v
			}
			delete(deliveries, stepKey(step.Agent, step.Task))
		}

		taskID := r.tasks.Create(inst.id, step.Agent, step.Task, input)
		inst.appendTask(taskID)
		_ = r.tasks.MarkRunning(taskID)

		msg := core.NewMessage(step.Task, input)
		msg["workflow_id"] = inst.id

		resp := r.orch.SendMessage(ctx, step.Agent, msg)
		if resp.IsError() {
			_ = r.tasks.MarkFailed(taskID, resp.Err())
			inst.setStatus(InstanceFailed)
			r.logger.Error("workflow.step.failed",
				"workflow", inst.name, "instance_id", inst.id,
				"step", i, "agent_id", step.Agent, "task", step.Task, "error", resp.Err())
			return
		}

		output := map[string]any(resp)
		_ = r.tasks.MarkCompleted(taskID, output)

		if route := step.RouteOutputTo; route != nil {
			mapped := resolveMapping(route.InputMapping, output)
			key := stepKey(route.Agent, route.Task)
			if deliveries[key] == nil {
				deliveries[key] = map[string]any{}
			}
			for k, v := range mapped {
				deliveries[key][k] = v
			}
			inst.mergeContext(mapped)
		}

		inst.setCurrentStep(i + 1)
	}

	inst.setStatus(InstanceCompleted)
	r.logger.Info("workflow.execute.completed",
		"workflow", inst.name, "instance_id", inst.id, "duration", time.Since(start))
}

func stepKey(agent, task string) string {
	return agent + "\x00" + task
}

// resolveMapping projects output fields through the route's input mapping.
// Mapping values may carry an "output." prefix; a missing source field is
// skipped rather than delivered as nil. An empty mapping delivers the whole
// output unchanged.
func resolveMapping(mapping map[string]string, output map[string]any) map[string]any {
	if len(mapping) == 0 {
		return cloneMap(output)
	}
	mapped := make(map[string]any, len(mapping))
	for dest, src := range mapping {
		if v, ok := lookupField(output, strings.TrimPrefix(src, "output.")); ok {
			mapped[dest] = v
		}
	}
	return mapped
}

// lookupField reads a field from the output map, falling back into a nested
// "response" object for agents that wrap their payload.
func lookupField(output map[string]any, field string) (any, bool) {
	if v, ok := output[field]; ok {
		return v, true
	}
	if nested, ok := output["response"].(map[string]any); ok {
		if v, ok := nested[field]; ok {
			return v, true
		}
	}
	return nil, false
}

// Wait blocks until the instance reaches a terminal state or ctx is done.
func (r *Runtime) Wait(ctx context.Context, instanceID string) error {
	r.mu.RLock()
	inst, ok := r.instances[instanceID]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownInstance, instanceID)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-inst.done:
		return nil
	}
}

// InstanceSnapshot is a read-only view of one workflow instance, including
// all task records gathered so far in execution order.
type InstanceSnapshot struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Status      string         `json:"status"`
	CurrentStep int            `json:"current_step"`
	Context     map[string]any `json:"context"`
	StartedAt   time.Time      `json:"started_at"`
	Tasks       []TaskRecord   `json:"tasks"`
}

// WorkflowStatus returns a snapshot of the instance, or false if the id is
// unknown.
func (r *Runtime) WorkflowStatus(instanceID string) (*InstanceSnapshot, bool) {
	r.mu.RLock()
	inst, ok := r.instances[instanceID]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return inst.snapshot(r.tasks), true
}

// RuntimeStatus aggregates counts over the runtime's registries.
type RuntimeStatus struct {
	RegisteredAgents    int            `json:"registered_agents"`
	ConfiguredWorkflows int            `json:"configured_workflows"`
	ActiveWorkflows     int            `json:"active_workflows"`
	TotalWorkflows      int            `json:"total_workflows"`
	TotalTasks          int            `json:"total_tasks"`
	TaskStatusCounts    map[string]int `json:"task_status_counts"`
}

// Status returns aggregate counts: bound agents, configured and active
// workflows, and a status histogram over every task record ever created.
func (r *Runtime) Status() RuntimeStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	configured := 0
	if r.config != nil {
		configured = len(r.config.Workflows)
	}
	active := 0
	for _, inst := range r.instances {
		if !inst.currentStatus().Terminal() {
			active++
		}
	}
	return RuntimeStatus{
		RegisteredAgents:    len(r.bound),
		ConfiguredWorkflows: configured,
		ActiveWorkflows:     active,
		TotalWorkflows:      len(r.instances),
		TotalTasks:          r.tasks.Total(),
		TaskStatusCounts:    r.tasks.StatusCounts(),
	}
}

// instance is the mutable execution state of one workflow run. The runtime's
// run loop is the only writer; status queries read under the instance mutex.
type instance struct {
	id        string
	name      string
	startedAt time.Time
	done      chan struct{}

	mu          sync.Mutex
	status      InstanceStatus
	currentStep int
	context     map[string]any
	taskIDs     []string
}

func (i *instance) setStatus(s InstanceStatus) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.status.Terminal() {
		return
	}
	i.status = s
}

func (i *instance) currentStatus() InstanceStatus {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.status
}

func (i *instance) setCurrentStep(step int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.currentStep = step
}

func (i *instance) appendTask(id string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.taskIDs = append(i.taskIDs, id)
}

func (i *instance) mergeContext(fields map[string]any) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for k, v := range fields {
		i.context[k] = v
	}
}

func (i *instance) snapshot(tasks *TaskRegistry) *InstanceSnapshot {
	i.mu.Lock()
	defer i.mu.Unlock()

	records := make([]TaskRecord, 0, len(i.taskIDs))
	for _, id := range i.taskIDs {
		if rec, ok := tasks.Get(id); ok {
			records = append(records, rec)
		}
	}
	return &InstanceSnapshot{
		ID:          i.id,
		Name:        i.name,
		Status:      i.status.String(),
		CurrentStep: i.currentStep,
		Context:     cloneMap(i.context),
		StartedAt:   i.startedAt,
		Tasks:       records,
	}
}
