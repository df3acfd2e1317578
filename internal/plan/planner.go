package plan

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"rxrename/internal/filter"
)

// Renamer maps a base name to its new base name.
type Renamer interface {
	Rename(name string) (string, bool)
}

// Stater reports whether a path exists without following symlinks.
type Stater interface {
	Lstat(name string) (fs.FileInfo, error)
}

// OSStater is the Stater backed by the operating system.
type OSStater struct{}

// Lstat calls os.Lstat.
func (OSStater) Lstat(name string) (fs.FileInfo, error) {
	return os.Lstat(name)
}

// Pass is one planning step. Passes run in order over the shared state.
type Pass func(*state)

type state struct {
	renamer Renamer
	stater  Stater
	ops     []Op
	names   []string
	sources map[string]int
}

func (s *state) skip(i int, reason string) {
	s.ops[i].Status = StatusSkipped
	s.ops[i].Reason = reason
}

// Planner turns a candidate snapshot into a Plan.
type Planner struct {
	renamer Renamer
	stater  Stater
	passes  []Pass
}

// NewPlanner creates a Planner with the standard passes.
func NewPlanner(renamer Renamer, stater Stater) *Planner {
	p := &Planner{
		renamer: renamer,
		stater:  stater,
	}

	p.Use(substitutePass)
	p.Use(unchangedPass)
	p.Use(invalidNamePass)
	p.Use(collisionPass)
	p.Use(targetExistsPass)
	p.Use(blockedPass)
	p.Use(cyclePass)
	p.Use(orderPass)

	return p
}

// Use appends a pass.
func (p *Planner) Use(pass Pass) {
	p.passes = append(p.passes, pass)
}

// Build plans renames for candidates. The result depends only on the snapshot,
// the renamer and what the Stater reports for targets outside the snapshot.
func (p *Planner) Build(candidates []filter.Candidate) *Plan {
	s := &state{
		renamer: p.renamer,
		stater:  p.stater,
		ops:     make([]Op, len(candidates)),
		names:   make([]string, len(candidates)),
		sources: make(map[string]int, len(candidates)),
	}
	for i, c := range candidates {
		s.ops[i] = Op{Source: c.Path, Status: StatusReady}
		s.sources[c.Path] = i
	}

	for _, pass := range p.passes {
		pass(s)
	}

	return newPlan(s.ops)
}

// substitutePass computes the new name of every candidate. Only the base name is
// transformed; the directory is kept as is.
func substitutePass(s *state) {
	for i := range s.ops {
		src := s.ops[i].Source
		newName, _ := s.renamer.Rename(filepath.Base(src))
		s.names[i] = newName
		dir := filepath.Dir(src)
		if !strings.HasSuffix(dir, string(filepath.Separator)) {
			dir += string(filepath.Separator)
		}
		s.ops[i].Target = dir + newName
	}
}

func unchangedPass(s *state) {
	for i := range s.ops {
		if s.ops[i].Target == s.ops[i].Source {
			s.skip(i, ReasonUnchanged)
		}
	}
}

func invalidNamePass(s *state) {
	for i := range s.ops {
		if s.ops[i].Ready() && !validName(s.names[i]) {
			s.skip(i, ReasonInvalidName)
		}
	}
}

func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsRune(name, '/') &&
		!strings.ContainsRune(name, filepath.Separator) &&
		!strings.ContainsRune(name, 0)
}

// collisionPass skips every op that shares its target with another ready op.
// None of them wins.
func collisionPass(s *state) {
	byTarget := make(map[string][]int)
	for i, op := range s.ops {
		if op.Ready() {
			byTarget[op.Target] = append(byTarget[op.Target], i)
		}
	}
	for _, group := range byTarget {
		if len(group) < 2 {
			continue
		}
		for _, i := range group {
			s.skip(i, ReasonCollision)
		}
	}
}

// targetExistsPass checks targets that are not part of the snapshot against the
// filesystem. Targets inside the snapshot are handled by blockedPass.
func targetExistsPass(s *state) {
	for i, op := range s.ops {
		if !op.Ready() {
			continue
		}
		if _, inSnapshot := s.sources[op.Target]; inSnapshot {
			continue
		}
		_, err := s.stater.Lstat(op.Target)
		switch {
		case err == nil:
			s.skip(i, ReasonTargetExists)
		case !stderrors.Is(err, fs.ErrNotExist):
			s.skip(i, ReasonTargetUnknown)
		}
	}
}

// blockedPass skips ops whose target is a snapshot file that is not moving away.
// Skipping one op can block another, so it runs to a fixpoint.
func blockedPass(s *state) {
	for changed := true; changed; {
		changed = false
		for i, op := range s.ops {
			if !op.Ready() {
				continue
			}
			j, ok := s.sources[op.Target]
			if ok && !s.ops[j].Ready() {
				s.skip(i, ReasonTargetExists)
				changed = true
			}
		}
	}
}

// dependency returns the ready op whose source is op i's target, if any.
func (s *state) dependency(i int) (int, bool) {
	j, ok := s.sources[s.ops[i].Target]
	if !ok || !s.ops[j].Ready() {
		return 0, false
	}
	return j, true
}

// cyclePass skips ops that form a rename cycle (a->b, b->a). After collisionPass
// every target is unique, so each op has at most one dependency and at most one
// dependent: the dependency graph is a set of disjoint chains and cycles.
func cyclePass(s *state) {
	for i := range s.ops {
		if !s.ops[i].Ready() {
			continue
		}
		var cycle []int
		seen := map[int]bool{i: true}
		j, ok := s.dependency(i)
		for ok {
			if j == i {
				cycle = append(cycle, i)
				break
			}
			if seen[j] {
				break
			}
			seen[j] = true
			cycle = append(cycle, j)
			j, ok = s.dependency(j)
		}
		if len(cycle) > 0 && cycle[len(cycle)-1] == i {
			for _, k := range cycle {
				s.skip(k, ReasonCycle)
			}
		}
	}
}

// orderPass reorders ready ops so each chain runs from its end: for a->b, b->c
// the rename b->c happens first. Skipped ops and independent ops keep snapshot order.
func orderPass(s *state) {
	ordered := make([]Op, 0, len(s.ops))
	emitted := make([]bool, len(s.ops))

	for i := range s.ops {
		if emitted[i] {
			continue
		}
		if !s.ops[i].Ready() {
			ordered = append(ordered, s.ops[i])
			emitted[i] = true
			continue
		}

		chain := []int{i}
		for j, ok := s.dependency(i); ok && !emitted[j]; j, ok = s.dependency(j) {
			chain = append(chain, j)
		}
		for k := len(chain) - 1; k >= 0; k-- {
			ordered = append(ordered, s.ops[chain[k]])
			emitted[chain[k]] = true
		}
	}

	s.ops = ordered
	s.names = nil
	for i, op := range s.ops {
		s.sources[op.Source] = i
	}
}
