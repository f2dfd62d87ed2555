// Package checkpoint persists the single operation that is suspended at a
// rebase conflict so that continue can finish it in a later invocation.
//
// A checkpoint's arguments are a closed tagged union: every resumable
// action has its own argument type implementing Args, and Args cannot be
// implemented outside this package.
package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Action identifies a resumable operation
type Action string

const (
	// ActionOnto resumes moving a branch onto a new parent
	ActionOnto Action = "ONTO"
	// ActionRestack resumes restacking a branch and the queue behind it
	ActionRestack Action = "RESTACK"
)

// ErrStoreClosed is returned when using a closed store
var ErrStoreClosed = errors.New("checkpoint store closed")

// UnknownActionError is returned when a persisted checkpoint names an action
// this build does not know. The checkpoint must be cleared by hand.
type UnknownActionError struct {
	Action Action
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown checkpoint action %q", e.Action)
}

// Args is the argument record of one action
type Args interface {
	Action() Action
	sealed()
}

// OntoArgs are the arguments of a suspended onto
type OntoArgs struct {
	Branch string `json:"branch"`
	Onto   string `json:"onto"`
}

// Action implements Args
func (OntoArgs) Action() Action { return ActionOnto }
func (OntoArgs) sealed()        {}

// RestackArgs are the arguments of a suspended upstack restack. Branch is
// the branch whose rebase stopped; Remaining are restacked after it, in order.
type RestackArgs struct {
	Branch    string   `json:"branch"`
	Remaining []string `json:"remaining"`
}

// Action implements Args
func (RestackArgs) Action() Action { return ActionRestack }
func (RestackArgs) sealed()        {}

// Checkpoint is a suspended operation
type Checkpoint struct {
	ID        string
	Args      Args
	CreatedAt time.Time
}

// Action returns the tag of the suspended operation
func (c *Checkpoint) Action() Action {
	return c.Args.Action()
}

// Store persists at most one checkpoint
type Store interface {
	// Save persists a checkpoint for args, replacing any previous one
	Save(ctx context.Context, args Args) (*Checkpoint, error)
	// MostRecent returns the saved checkpoint, or nil if there is none
	MostRecent(ctx context.Context) (*Checkpoint, error)
	// Clear removes the saved checkpoint. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
	Close() error
}

func newCheckpoint(args Args) *Checkpoint {
	return &Checkpoint{
		ID:        uuid.NewString(),
		Args:      args,
		CreatedAt: time.Now().UTC(),
	}
}

// record is the on-disk shape shared by the file and sqlite stores
type record struct {
	ID        string          `json:"id"`
	Action    Action          `json:"action"`
	Args      json.RawMessage `json:"args"`
	CreatedAt time.Time       `json:"createdAt"`
}

func encode(c *Checkpoint) (*record, error) {
	args, err := json.Marshal(c.Args)
	if err != nil {
		return nil, fmt.Errorf("marshal checkpoint args: %w", err)
	}
	return &record{
		ID:        c.ID,
		Action:    c.Action(),
		Args:      args,
		CreatedAt: c.CreatedAt,
	}, nil
}

func decode(r *record) (*Checkpoint, error) {
	args, err := decodeArgs(r.Action, r.Args)
	if err != nil {
		return nil, err
	}
	return &Checkpoint{
		ID:        r.ID,
		Args:      args,
		CreatedAt: r.CreatedAt,
	}, nil
}

func decodeArgs(action Action, raw json.RawMessage) (Args, error) {
	switch action {
	case ActionOnto:
		var args OntoArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, fmt.Errorf("unmarshal %s args: %w", action, err)
		}
		return args, nil
	case ActionRestack:
		var args RestackArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, fmt.Errorf("unmarshal %s args: %w", action, err)
		}
		return args, nil
	default:
		return nil, &UnknownActionError{Action: action}
	}
}
