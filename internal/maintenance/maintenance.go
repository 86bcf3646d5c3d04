// Package maintenance switches individual write operations off at runtime.
package maintenance

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samuelcg20/Apt/internal/apperr"
	"github.com/samuelcg20/Apt/internal/config"
)

type Operation string

const (
	TasksCreate          Operation = "tasks.create"
	TasksUpdate          Operation = "tasks.update"
	TasksDelete          Operation = "tasks.delete"
	ApplicationsApply    Operation = "applications.apply"
	ApplicationsStatus   Operation = "applications.status"
	ApplicationsWithdraw Operation = "applications.withdraw"
	ProfileUpsert        Operation = "profile.upsert"
	ProjectsCreate       Operation = "projects.create"
	ProjectsUpdate       Operation = "projects.update"
	ProjectsDelete       Operation = "projects.delete"
	ReviewsCreate        Operation = "reviews.create"
	ReviewsUpdate        Operation = "reviews.update"
	ReviewsDelete        Operation = "reviews.delete"
)

var operations = []Operation{
	TasksCreate, TasksUpdate, TasksDelete,
	ApplicationsApply, ApplicationsStatus, ApplicationsWithdraw,
	ProfileUpsert,
	ProjectsCreate, ProjectsUpdate, ProjectsDelete,
	ReviewsCreate, ReviewsUpdate, ReviewsDelete,
}

// demoDisabled are the writes closed on the public demo
var demoDisabled = []Operation{
	TasksCreate,
	ApplicationsApply,
	ReviewsCreate,
	ProfileUpsert,
	ProjectsCreate,
	ProjectsUpdate,
	ProjectsDelete,
}

const DefaultMessage = "Sorry, we are currently experiencing high traffic."

type Gate struct {
	disabled map[Operation]struct{}
	message  string
}

// New builds a gate from config. Demo defaults only apply to the memory store.
func New(cfg config.MaintenanceConfig, storageDriver string) (*Gate, error) {
	g := &Gate{
		disabled: make(map[Operation]struct{}),
		message:  cfg.Message,
	}
	if g.message == "" {
		g.message = DefaultMessage
	}

	if cfg.DemoDefaults && storageDriver == config.StorageMemory {
		for _, op := range demoDisabled {
			g.disabled[op] = struct{}{}
		}
	}

	for _, name := range cfg.DisabledWrites {
		op := Operation(strings.TrimSpace(name))
		if !slices.Contains(operations, op) {
			return nil, fmt.Errorf("unknown maintenance operation %q", name)
		}
		g.disabled[op] = struct{}{}
	}
	return g, nil
}

// Open returns a gate that allows everything
func Open() *Gate {
	return &Gate{disabled: map[Operation]struct{}{}, message: DefaultMessage}
}

// Check returns an Unavailable error when op is switched off
func (g *Gate) Check(op Operation) error {
	if g == nil {
		return nil
	}
	if _, off := g.disabled[op]; off {
		return apperr.Unavailable(g.message)
	}
	return nil
}

func (g *Gate) Disabled() []Operation {
	if g == nil {
		return nil
	}
	out := make([]Operation, 0, len(g.disabled))
	for _, op := range operations {
		if _, off := g.disabled[op]; off {
			out = append(out, op)
		}
	}
	return out
}
