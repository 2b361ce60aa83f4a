package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIterativeMarshaling(t *testing.T) {
	tests := []struct {
		name string
		val  Iterative
		want string
	}{
		{"wildcard", Wildcard(), "true"},
		{"none", NoRepeat(), "false"},
		{"count", Repeat(3), "3"},
		{"zero_count", Repeat(0), "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.val)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestIterativeUnmarshaling(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Iterative
	}{
		{"true", "true", Iterative{Bool: true}},
		{"false", "false", Iterative{}},
		{"count", "7", Repeat(7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var it Iterative
			require.NoError(t, json.Unmarshal([]byte(tt.input), &it))
			assert.Equal(t, tt.want, it)
		})
	}
}

func TestIterativeUnmarshalRejectsInvalid(t *testing.T) {
	var it Iterative
	assert.Error(t, json.Unmarshal([]byte(`"often"`), &it))
	assert.Error(t, json.Unmarshal([]byte(`-2`), &it))
}

func TestNewTaskDefaults(t *testing.T) {
	task := NewTask()
	assert.Equal(t, TypeAbstract, task.Type)
	assert.True(t, task.Iterative.IsWildcard())
	assert.Equal(t, Duration{Min: 0, Max: 0, Unit: "s"}, task.Duration)
	assert.False(t, task.Optional)
	assert.False(t, task.Duration.IsSet())
}

func TestDurationIsSet(t *testing.T) {
	assert.False(t, DefaultDuration().IsSet())
	assert.True(t, Duration{Min: 1, Unit: "s"}.IsSet())
	assert.True(t, Duration{Max: 0.5, Unit: "s"}.IsSet())
}

func TestCountersAreIndependentSequences(t *testing.T) {
	var c Counters
	assert.Equal(t, "t0", c.NextTaskID())
	assert.Equal(t, "t1", c.NextTaskID())
	assert.Equal(t, "a0", c.NextDataID())
	assert.Equal(t, "o0", c.NextOperatorID())
	assert.Equal(t, "o1", c.NextOperatorID())
	assert.Equal(t, "e0", c.NextErrorID())
	assert.Equal(t, "t2", c.NextTaskID())
}

func TestWalkTasksDepthFirstPreOrder(t *testing.T) {
	// root
	//   op(seq)
	//     a
	//       op(choice)
	//         a1, a2
	//     op(concurrency)
	//       b
	//     c
	a1 := &Task{ID: "a1"}
	a2 := &Task{ID: "a2"}
	a := &Task{ID: "a", Operator: &Operator{Type: "choice", Children: []Node{a1, a2}}}
	b := &Task{ID: "b"}
	c := &Task{ID: "c"}
	root := &Task{ID: "root", Operator: &Operator{
		Type: "sequence",
		Children: []Node{
			a,
			&Operator{Type: "concurrency", Children: []Node{b}},
			c,
		},
	}}

	var order []string
	WalkTasks(root, func(task *Task) { order = append(order, task.ID) })
	assert.Equal(t, []string{"root", "a", "a1", "a2", "b", "c"}, order)
}

func TestEmptyDocument(t *testing.T) {
	var d *Document
	assert.True(t, d.Empty())
	assert.True(t, (&Document{}).Empty())
	assert.False(t, (&Document{Root: NewTask()}).Empty())
}
