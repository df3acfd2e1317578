// Package plan computes the conflict-checked set of renames for one run.
//
// Planning works on the immutable candidate snapshot and never mutates the
// filesystem. Existence checks for targets outside the snapshot go through a
// Stater, so the planner is deterministic and testable without a real directory.
package plan

// Status is the planning verdict for one candidate.
type Status string

// Planning verdicts.
const (
	StatusReady   Status = "ready"
	StatusSkipped Status = "skipped"
)

// Skip reasons.
const (
	ReasonUnchanged     = "unchanged"
	ReasonInvalidName   = "invalid name"
	ReasonCollision     = "collision"
	ReasonTargetExists  = "target exists"
	ReasonTargetUnknown = "target not accessible"
	ReasonCycle         = "rename cycle"
)

// Op is one planned rename. Source always comes from the snapshot; Target differs
// from Source only in its final element.
type Op struct {
	Source string
	Target string
	Status Status
	Reason string
}

// Ready reports whether the op should be executed.
func (o Op) Ready() bool {
	return o.Status == StatusReady
}

// Plan is the ordered result of planning. Ready ops appear in a safe execution
// order: when one op's target is another op's source, the latter comes first.
// Everything else keeps snapshot order.
type Plan struct {
	ops      []Op
	reserved map[string]struct{}
}

// Counts summarizes a plan.
type Counts struct {
	Ready   int
	Skipped int
	Reasons map[string]int
}

func newPlan(ops []Op) *Plan {
	p := &Plan{
		ops:      ops,
		reserved: make(map[string]struct{}),
	}
	for _, op := range ops {
		if op.Ready() {
			p.reserved[op.Target] = struct{}{}
		}
	}
	return p
}

// Ops returns every op, ready and skipped, in execution order.
func (p *Plan) Ops() []Op {
	out := make([]Op, len(p.ops))
	copy(out, p.ops)
	return out
}

// Ready returns the ops that will be executed, in execution order.
func (p *Plan) Ready() []Op {
	var out []Op
	for _, op := range p.ops {
		if op.Ready() {
			out = append(out, op)
		}
	}
	return out
}

// reserves reports whether path is the target of a ready op.
func (p *Plan) reserves(path string) bool {
	_, ok := p.reserved[path]
	return ok
}

// Len returns the number of ops, one per candidate.
func (p *Plan) Len() int {
	return len(p.ops)
}

// IsEmpty reports whether nothing would be renamed.
func (p *Plan) IsEmpty() bool {
	return len(p.reserved) == 0
}

// Counts tallies ready and skipped ops.
func (p *Plan) Counts() Counts {
	c := Counts{Reasons: make(map[string]int)}
	for _, op := range p.ops {
		if op.Ready() {
			c.Ready++
			continue
		}
		c.Skipped++
		c.Reasons[op.Reason]++
	}
	return c
}
