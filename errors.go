package namedtree

import (
	"errors"
	"fmt"
	"strings"
)

// Structural errors
var (
	// ErrTypeMismatch indicates that a key has a different kind (directory or
	// leaf) in some member tree than the spec requires.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrArity indicates that the number of trees does not match what the
	// call requires.
	ErrArity = errors.New("wrong number of trees")

	// ErrNotFound indicates that a path segment does not exist in a tree.
	ErrNotFound = errors.New("no such key")
)

// Operator errors
var (
	// ErrUnknownOperator indicates that no operator is registered under a name.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrDivisionByZero is returned by diff_ratio when the base value is zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrNotNumber indicates that an arithmetic operator met a non-numeric leaf.
	ErrNotNumber = errors.New("not a number")
)

// Kind names the classification the spec expects for a key.
type Kind string

const (
	KindDir  Kind = "directory"
	KindLeaf Kind = "leaf"
)

// MismatchError reports a key whose kind differs from the spec in one or
// more member trees. Traversal stops at the first one.
type MismatchError struct {
	Path      []string
	Key       string
	Want      Kind
	Offenders []string
}

func (e *MismatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at %s:", ErrTypeMismatch, FormatPath(e.Path, e.Key))
	for _, name := range e.Offenders {
		if e.Want == KindDir {
			fmt.Fprintf(&b, " %s is NOT a dict;", name)
		} else {
			fmt.Fprintf(&b, " %s is a dict;", name)
		}
	}
	return strings.TrimSuffix(b.String(), ";")
}

func (e *MismatchError) Unwrap() error {
	return ErrTypeMismatch
}

// OperatorError is returned by the built-in operators. The traversal engine
// passes it through untouched.
type OperatorError struct {
	Op   string
	Path []string
	Key  string
	Err  error
}

func (e *OperatorError) Error() string {
	if e.Key == "" && len(e.Path) == 0 {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s at %s: %v", e.Op, FormatPath(e.Path, e.Key), e.Err)
}

func (e *OperatorError) Unwrap() error {
	return e.Err
}
