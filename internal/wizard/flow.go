package wizard

import "errors"

var (
	ErrUnknownStep    = errors.New("unknown wizard step")
	ErrLastStep       = errors.New("already at the last step")
	ErrFirstStep      = errors.New("already at the first step")
	ErrJumpNotAllowed = errors.New("step is not reachable from the current step")
	ErrLastRow        = errors.New("at least one row must be kept")
	ErrRowOutOfRange  = errors.New("row index out of range")
)

// Step is one page of a wizard. A step either edits one child collection
// (Collection set) or the entity's own publish-level fields.
type Step struct {
	Key        string `json:"key"`
	Title      string `json:"title"`
	Collection string `json:"collection,omitempty"`
	MinRows    int    `json:"min_rows,omitempty"`
}

func (s Step) EditsFields() bool {
	return s.Collection == ""
}

// RequiredRows is the floor a collection step enforces. Collection steps
// always keep at least one row.
func (s Step) RequiredRows() int {
	if s.EditsFields() {
		return 0
	}
	if s.MinRows < 1 {
		return 1
	}
	return s.MinRows
}

type Flow struct {
	steps     []Step
	allowJump bool
}

func NewFlow(allowJump bool, steps ...Step) Flow {
	cp := make([]Step, len(steps))
	copy(cp, steps)
	return Flow{steps: cp, allowJump: allowJump}
}

func (f Flow) Steps() []Step {
	cp := make([]Step, len(f.steps))
	copy(cp, f.steps)
	return cp
}

func (f Flow) Len() int        { return len(f.steps) }
func (f Flow) AllowJump() bool { return f.allowJump }

func (f Flow) Index(key string) (int, bool) {
	for i, s := range f.steps {
		if s.Key == key {
			return i, true
		}
	}
	return 0, false
}

func (f Flow) Step(key string) (Step, bool) {
	i, ok := f.Index(key)
	if !ok {
		return Step{}, false
	}
	return f.steps[i], true
}

// StepFor returns the step that edits the given collection.
func (f Flow) StepFor(collection string) (Step, bool) {
	for _, s := range f.steps {
		if s.Collection == collection && collection != "" {
			return s, true
		}
	}
	return Step{}, false
}

// CursorAt places a cursor on key. An empty or unknown key starts at the
// first step, which is where a never-saved entity resumes.
func (f Flow) CursorAt(key string) *Cursor {
	i, _ := f.Index(key)
	return &Cursor{flow: f, pos: i}
}

// Cursor tracks the position inside a Flow.
type Cursor struct {
	flow Flow
	pos  int
}

func (c *Cursor) Current() Step { return c.flow.steps[c.pos] }
func (c *Cursor) Index() int    { return c.pos }

func (c *Cursor) Prev() (Step, bool) {
	if c.pos == 0 {
		return Step{}, false
	}
	return c.flow.steps[c.pos-1], true
}

func (c *Cursor) Following() (Step, bool) {
	if c.pos >= len(c.flow.steps)-1 {
		return Step{}, false
	}
	return c.flow.steps[c.pos+1], true
}

func (c *Cursor) Next() error {
	if c.pos >= len(c.flow.steps)-1 {
		return ErrLastStep
	}
	c.pos++
	return nil
}

func (c *Cursor) Back() error {
	if c.pos == 0 {
		return ErrFirstStep
	}
	c.pos--
	return nil
}

// JumpTo moves to key. Linear flows only reach the neighbouring steps.
func (c *Cursor) JumpTo(key string) error {
	i, ok := c.flow.Index(key)
	if !ok {
		return ErrUnknownStep
	}
	if !c.flow.allowJump && (i > c.pos+1 || i < c.pos-1) {
		return ErrJumpNotAllowed
	}
	c.pos = i
	return nil
}
