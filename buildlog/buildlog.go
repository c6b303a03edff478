// Package buildlog provides the mesh-build pipeline's logging and
// timing facility. It carries no external logging dependency, the
// same choice recast's own BuildContext makes: the build runs
// offline, once per map, and a handful of in-memory messages plus
// named timers are enough.
package buildlog

import (
	"fmt"
	"time"
)

// Category classifies a logged message.
type Category int

const (
	Progress Category = iota
	Warning
	Error
)

func (c Category) prefix() string {
	switch c {
	case Progress:
		return "PROG"
	case Warning:
		return "WARN"
	case Error:
		return "ERR"
	default:
		return "?"
	}
}

// Message is one recorded log line.
type Message struct {
	Category Category
	Text     string
}

// Context accumulates build log messages and named timers for one
// mesh-build run. Nil-safe: a nil *Context silently drops every call,
// so build code can thread an optional context without branching on
// whether logging was requested.
type Context struct {
	enabled bool
	timers  bool

	messages []Message
	start    map[string]time.Time
	acc      map[string]time.Duration
}

// New returns a Context with logging and timers enabled.
func New() *Context {
	return &Context{
		enabled: true,
		timers:  true,
		start:   make(map[string]time.Time),
		acc:     make(map[string]time.Duration),
	}
}

func (c *Context) Progressf(format string, v ...interface{}) { c.log(Progress, format, v...) }
func (c *Context) Warningf(format string, v ...interface{})  { c.log(Warning, format, v...) }
func (c *Context) Errorf(format string, v ...interface{})    { c.log(Error, format, v...) }

func (c *Context) log(cat Category, format string, v ...interface{}) {
	if c == nil || !c.enabled {
		return
	}
	c.messages = append(c.messages, Message{Category: cat, Text: fmt.Sprintf(format, v...)})
}

// StartTimer begins (or resumes) the named timer.
func (c *Context) StartTimer(label string) {
	if c == nil || !c.timers {
		return
	}
	c.start[label] = time.Now()
}

// StopTimer accumulates the elapsed time since the matching StartTimer
// into the named timer's running total.
func (c *Context) StopTimer(label string) {
	if c == nil || !c.timers {
		return
	}
	started, ok := c.start[label]
	if !ok {
		return
	}
	c.acc[label] += time.Since(started)
}

// AccumulatedTime returns the named timer's running total.
func (c *Context) AccumulatedTime(label string) time.Duration {
	if c == nil || !c.timers {
		return 0
	}
	return c.acc[label]
}

// Messages returns every message logged so far, in order.
func (c *Context) Messages() []Message {
	if c == nil {
		return nil
	}
	return c.messages
}

// Dump writes a header line followed by every logged message to w.
func (c *Context) Dump(w interface{ Write([]byte) (int, error) }, header string) {
	if c == nil {
		return
	}
	fmt.Fprintln(w, header)
	for _, m := range c.messages {
		fmt.Fprintf(w, "%s %s\n", m.Category.prefix(), m.Text)
	}
}
