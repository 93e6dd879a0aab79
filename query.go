package selene

// Query is a described function reading a value from an entity.
type Query[E Entity, R any] struct {
	description string
	fn          func(E) (R, error)
}

// NewQuery returns a query rendered as description in error messages.
func NewQuery[E Entity, R any](description string, fn func(E) (R, error)) Query[E, R] {
	return Query[E, R]{description: description, fn: fn}
}

// Apply runs the query once.
func (q Query[E, R]) Apply(entity E) (R, error) { return q.fn(entity) }

func (q Query[E, R]) String() string { return q.description }

// Command is a described function performing a side effect on an entity.
type Command[E Entity] struct {
	description string
	fn          func(E) error
}

// NewCommand returns a command rendered as description in error messages.
func NewCommand[E Entity](description string, fn func(E) error) Command[E] {
	return Command[E]{description: description, fn: fn}
}

// Apply runs the command once.
func (c Command[E]) Apply(entity E) error { return c.fn(entity) }

func (c Command[E]) String() string { return c.description }

func (c Command[E]) query() Query[E, struct{}] {
	return NewQuery(c.description, func(entity E) (struct{}, error) {
		return struct{}{}, c.fn(entity)
	})
}

// Get waits until q succeeds on entity and returns its value.
func Get[E Entity, R any](entity E, q Query[E, R]) (R, error) {
	return Wait(entity, q)
}

// Perform waits until cmd succeeds on entity.
func Perform[E Entity](entity E, cmd Command[E]) error {
	_, err := Wait(entity, cmd.query())
	return err
}
