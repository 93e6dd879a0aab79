package selene

// Locator is a described, lazy producer of a value, usually a WebElement or a
// slice of them. It is resolved again on every call to Locate.
type Locator[T any] struct {
	description string
	locate      func() (T, error)
}

// NewLocator returns a locator rendered as description in error messages.
func NewLocator[T any](description string, locate func() (T, error)) *Locator[T] {
	return &Locator[T]{description: description, locate: locate}
}

// Locate resolves the locator.
func (l *Locator[T]) Locate() (T, error) {
	return l.locate()
}

func (l *Locator[T]) String() string { return l.description }

// cached resolves l once and returns a locator replaying the outcome.
func cached[T any](l *Locator[T]) *Locator[T] {
	value, err := l.Locate()
	return NewLocator(l.description+".cached", func() (T, error) {
		return value, err
	})
}
