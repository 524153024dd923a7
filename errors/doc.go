// Package errors provides structured error types for the lifetime library.
//
// Errors are categorized by Op (the handle operation that failed) and Kind
// (the ownership violation). The Error type carries the share-group
// identifier and the offending handle's sequence number for diagnostics.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.OpWrite, errors.KindNotWritable).
//		Group(groupID).
//		Handle(3).
//		Detail("handle lost ownership after move").
//		Build()
//
// Or use convenience constructors for the violation kinds:
//
//	err := errors.NotWritable(errors.OpWrite, groupID, 3)
//	err := errors.MutatorHeld(groupID, 1, 2)
//
// All errors implement the standard error interface and support errors.Is/As.
// Kind-only sentinels are exported for matching:
//
//	if errors.Is(err, lterrors.ErrNotOwner) { ... }
package errors
