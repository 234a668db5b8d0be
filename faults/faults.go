// Package faults defines the closed error taxonomy for reconciliation.
// Every error that escapes a component is classified so callers can decide
// whether to retry, abort, or ask for operator confirmation.
package faults

import (
	"errors"
	"fmt"

	"github.com/aurorec/aurorec/types"
)

// Kind partitions reconciliation failures by how they must be handled.
type Kind string

const (
	// KindValidation marks a malformed desired-state spec. Raised before
	// any remote call is made.
	KindValidation Kind = "validation"
	// KindTransient marks throttling, timeouts, and other provider errors
	// that are safe to retry.
	KindTransient Kind = "transient"
	// KindPermanent marks provider errors that will not succeed on retry,
	// such as bad credentials or a malformed identifier.
	KindPermanent Kind = "permanent"
	// KindTimeout marks a poll ceiling exceeded with the entity state
	// unresolved, or a retry budget exhausted.
	KindTimeout Kind = "timeout"
	// KindConflict marks a replacement-requiring diff without the explicit
	// opt-in flag set.
	KindConflict Kind = "conflict"
)

// Fault is a classified reconciliation error carrying enough context for
// manual remediation: the entity, the attempted operation, and the last
// status the provider reported.
type Fault struct {
	Kind       Kind
	EntityID   string
	Op         string
	LastStatus types.Status
	Err        error
}

func (f *Fault) Error() string {
	msg := fmt.Sprintf("%s fault", f.Kind)
	if f.Op != "" {
		msg += ": " + f.Op
	}
	if f.EntityID != "" {
		msg += " " + f.EntityID
	}
	if f.LastStatus != "" {
		msg += fmt.Sprintf(" (last status %s)", f.LastStatus)
	}
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

func (f *Fault) Unwrap() error { return f.Err }

// Validation builds a validation fault. It never carries provider state.
func Validation(entityID, op string, err error) *Fault {
	return &Fault{Kind: KindValidation, EntityID: entityID, Op: op, Err: err}
}

// Transient builds a retryable provider fault.
func Transient(entityID, op string, err error) *Fault {
	return &Fault{Kind: KindTransient, EntityID: entityID, Op: op, Err: err}
}

// Permanent builds a non-retryable provider fault.
func Permanent(entityID, op string, err error) *Fault {
	return &Fault{Kind: KindPermanent, EntityID: entityID, Op: op, Err: err}
}

// Timeout builds a fault for an exceeded poll ceiling or exhausted retry
// budget, recording the last observed status.
func Timeout(entityID, op string, last types.Status, err error) *Fault {
	return &Fault{Kind: KindTimeout, EntityID: entityID, Op: op, LastStatus: last, Err: err}
}

// Conflict builds a fault for a destructive change that was not opted into.
func Conflict(entityID, op string, err error) *Fault {
	return &Fault{Kind: KindConflict, EntityID: entityID, Op: op, Err: err}
}

// KindOf returns the fault kind of err, or the empty string when err is not
// a classified fault.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

func IsValidation(err error) bool { return KindOf(err) == KindValidation }
func IsTransient(err error) bool  { return KindOf(err) == KindTransient }
func IsPermanent(err error) bool  { return KindOf(err) == KindPermanent }
func IsTimeout(err error) bool    { return KindOf(err) == KindTimeout }
func IsConflict(err error) bool   { return KindOf(err) == KindConflict }
