package ir

import "fmt"

// Counters owns the synthetic-identifier sequences for one conversion
// run. Identifiers are assigned in traversal order and are stable within
// a run, not across runs. The zero value is ready to use.
//
// Counters are deliberately passed into traversals rather than held as
// shared state; concurrent conversions must each own their own value.
type Counters struct {
	task     int
	data     int
	operator int
	errs     int
}

// NextTaskID returns the next task id (t0, t1, ...).
func (c *Counters) NextTaskID() string {
	id := fmt.Sprintf("t%d", c.task)
	c.task++
	return id
}

// NextDataID returns the next data id (a0, a1, ...).
func (c *Counters) NextDataID() string {
	id := fmt.Sprintf("a%d", c.data)
	c.data++
	return id
}

// NextOperatorID returns the next operator id (o0, o1, ...).
func (c *Counters) NextOperatorID() string {
	id := fmt.Sprintf("o%d", c.operator)
	c.operator++
	return id
}

// NextErrorID returns the next error id (e0, e1, ...).
func (c *Counters) NextErrorID() string {
	id := fmt.Sprintf("e%d", c.errs)
	c.errs++
	return id
}
