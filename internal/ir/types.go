package ir

import (
	"encoding/json"
	"fmt"
)

// Document is the result of one parse: the root task plus the data and
// error lists, which are flattened out of the source document and attached
// only at the top level.
type Document struct {
	Root   *Task
	Datas  []Data
	Errors []ErrorNote
}

// Empty reports whether the parse found no task at all. An input without a
// task container yields an empty Document, not an error.
func (d *Document) Empty() bool { return d == nil || d.Root == nil }

// Task is a unit of activity. Sub-structure hangs off a single optional
// Operator child; tasks never hold children directly.
type Task struct {
	ID          string
	AutoID      bool // id was generated, not authored in the input
	Label       string
	Type        string
	Description string
	Optional    bool
	Iterative   Iterative
	Duration    Duration
	Loop        Loop
	Refs        []Ref
	Metadata    map[string]any
	Operator    *Operator
}

// NewTask returns a task carrying the field defaults every reader starts
// from: type abstract, wildcard iteration, zero duration in seconds.
func NewTask() *Task {
	return &Task{
		Type:      TypeAbstract,
		Iterative: Wildcard(),
		Duration:  DefaultDuration(),
	}
}

// HasChildren reports whether the task has any sub-structure.
func (t *Task) HasChildren() bool {
	return t.Operator != nil && len(t.Operator.Children) > 0
}

// Operator expresses the temporal composition of its children. The type
// vocabulary is open and preserved verbatim; child order is execution
// order and is never normalized.
type Operator struct {
	Type     string
	Children []Node
}

// Node is an operator child: either a *Task or an *Operator. The variant
// is decided once at the reading boundary and carried explicitly from
// there on.
type Node interface{ node() }

func (*Task) node()     {}
func (*Operator) node() {}

// Ref is an outbound reference from a task to a data or error entity.
type Ref struct {
	ID       string `json:"id"`
	Target   string `json:"target"` // "data" or "error"; empty means data
	LinkType string `json:"linkType"`
}

// Data is a data object referenced by tasks.
type Data struct {
	ID       string
	Type     string
	Label    string
	Position *Position
	Links    []Link
}

// Link ties a data object back to the task that uses it.
type Link struct {
	TaskID   string `json:"taskId,omitempty"`
	LinkType string `json:"linkType,omitempty"`
}

// ErrorNote is a human-error annotation. Type "humanerror" marks a
// phenotype; every other type is a genotype kind.
type ErrorNote struct {
	Type        string
	Description string
	Position    *Position
	NodeID      string
}

// IsPhenotype reports whether the note renders as a phenotype element.
func (e ErrorNote) IsPhenotype() bool { return e.Type == ErrorPhenotype }

// Position is a display-only coordinate pair.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Duration bounds a task's execution time. Both bounds zero means the
// duration was never set.
type Duration struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Unit string  `json:"unit"`
}

// DefaultDuration is the unset duration: zero bounds in seconds.
func DefaultDuration() Duration { return Duration{Unit: "s"} }

// IsSet reports whether either bound is nonzero.
func (d Duration) IsSet() bool { return d.Min != 0 || d.Max != 0 }

// Loop is the iteration window configuration of a task.
type Loop struct {
	MinIterations int `json:"minIterations"`
	MaxIterations int `json:"maxIterations"`
}

// Iterative is the tri-state repeat marker on a task: boolean true is the
// wildcard (unlimited repetition), boolean false means none, and a count
// is an exact number of repetitions.
type Iterative struct {
	Count   int
	IsCount bool
	Bool    bool // consulted only when IsCount is false
}

// Wildcard is the default: unlimited repetition.
func Wildcard() Iterative { return Iterative{Bool: true} }

// NoRepeat marks a task that never repeats.
func NoRepeat() Iterative { return Iterative{} }

// Repeat marks an exact repeat count.
func Repeat(n int) Iterative { return Iterative{Count: n, IsCount: true} }

// IsWildcard reports whether the marker still equals the default.
func (it Iterative) IsWildcard() bool { return !it.IsCount && it.Bool }

// MarshalJSON renders the marker as a bare bool or integer.
func (it Iterative) MarshalJSON() ([]byte, error) {
	if it.IsCount {
		return json.Marshal(it.Count)
	}
	return json.Marshal(it.Bool)
}

// UnmarshalJSON accepts a bool or a non-negative integer.
func (it *Iterative) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*it = Iterative{Bool: b}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("iterative must be a boolean or a non-negative integer")
	}
	if n < 0 {
		return fmt.Errorf("iterative count must be non-negative, got %d", n)
	}
	*it = Repeat(n)
	return nil
}

// WalkTasks visits every task reachable from root in depth-first document
// order, the same order synthetic id generation uses.
func WalkTasks(root *Task, visit func(*Task)) {
	if root == nil {
		return
	}
	visit(root)
	if root.Operator != nil {
		walkOperator(root.Operator, visit)
	}
}

func walkOperator(op *Operator, visit func(*Task)) {
	for _, child := range op.Children {
		switch n := child.(type) {
		case *Task:
			WalkTasks(n, visit)
		case *Operator:
			walkOperator(n, visit)
		}
	}
}
