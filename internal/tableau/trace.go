package tableau

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"knower/internal/formula"
)

// Trace records the expansion events of a proof attempt for explanation
// and debugging. Recording is opt-in; a nil Trace costs nothing.
type Trace struct {
	AttemptID string
	Started   time.Time
	Events    []TraceEvent
}

// TraceEvent is one expansion-engine step.
type TraceEvent struct {
	Step    int
	Rule    string // which expansion rule fired
	Formula string
	Depth   int // remaining recursion budget when the rule fired
}

// NewTrace creates an empty trace with a unique attempt ID.
func NewTrace() *Trace {
	return &Trace{
		AttemptID: uuid.NewString(),
		Started:   time.Now(),
	}
}

func (t *Trace) record(rule string, f *formula.Formula, depth int) {
	t.Events = append(t.Events, TraceEvent{
		Step:    len(t.Events) + 1,
		Rule:    rule,
		Formula: f.String(),
		Depth:   depth,
	})
}

// String renders the trace one event per line.
func (t *Trace) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "attempt %s (%d events)\n", t.AttemptID, len(t.Events))
	for _, ev := range t.Events {
		fmt.Fprintf(&sb, "%4d  depth=%-3d %-16s %s\n", ev.Step, ev.Depth, ev.Rule, ev.Formula)
	}
	return sb.String()
}
