package lifetime

// Option configures a share group at creation time.
type Option[T any] func(*group[T])

// WithLabel attaches a human-readable label to the group. The label is
// carried on lifecycle events and log entries.
func WithLabel[T any](label string) Option[T] {
	return func(g *group[T]) {
		g.label = label
	}
}

// WithObserver registers an observer for the group's lifecycle events.
// Observers carry over to groups created through Clone.
func WithObserver[T any](o Observer) Option[T] {
	return func(g *group[T]) {
		if o != nil {
			g.observers = append(g.observers, o)
		}
	}
}

// WithCloneFunc sets the deep-copy function used by Clone. Without it the
// value is copied by assignment, which shares any reference parts of T
// between the two groups.
func WithCloneFunc[T any](fn func(T) T) Option[T] {
	return func(g *group[T]) {
		g.cloneFn = fn
	}
}
