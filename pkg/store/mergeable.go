package store

// MergeFunc absorbs other into self and returns the result. It need not be
// commutative or idempotent (spec.md §3 explicitly does not require a
// semilattice) — "merge" means whatever the caller's domain considers
// combining two property values to mean. Implementations are free to
// mutate and return self, or to return a fresh value.
type MergeFunc[T any] func(self, other T) T

// LastWriterWins returns a MergeFunc that discards self and keeps other,
// the policy used internally by Extend.
func LastWriterWins[T any]() MergeFunc[T] {
	return func(_, other T) T { return other }
}
