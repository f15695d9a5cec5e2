package errors

import (
	"fmt"
	"strings"
)

// IssueKind classifies a rejected graph entry.
type IssueKind string

// Graph validation issue kinds.
const (
	IssueDuplicateNode   IssueKind = "duplicate_node"
	IssueSelfLoop        IssueKind = "self_loop"
	IssueDanglingEdge    IssueKind = "dangling_edge"
	IssueInvalidStrength IssueKind = "invalid_strength"
)

// Issue describes one rejected node or edge record.
type Issue struct {
	Kind     IssueKind
	NodeID   int64   // set for node issues
	Source   int64   // set for edge issues
	Target   int64   // set for edge issues
	Strength float64 // set for edge issues
}

// String renders the issue for logs.
func (i Issue) String() string {
	switch i.Kind {
	case IssueDuplicateNode:
		return fmt.Sprintf("duplicate node id %d", i.NodeID)
	case IssueSelfLoop:
		return fmt.Sprintf("self-loop edge on node %d", i.Source)
	case IssueDanglingEdge:
		return fmt.Sprintf("edge %d-%d references a missing node", i.Source, i.Target)
	case IssueInvalidStrength:
		return fmt.Sprintf("edge %d-%d has invalid strength %g", i.Source, i.Target, i.Strength)
	}
	return string(i.Kind)
}

// ValidationError reports malformed graph input. Most issues reject a
// single entry; a duplicate node id invalidates the whole input set.
type ValidationError struct {
	Issues []Issue
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("%s: %s", ErrCodeInvalidGraph, e.Issues[0])
	}
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		parts[i] = is.String()
	}
	return fmt.Sprintf("%s: %d issues: %s", ErrCodeInvalidGraph, len(e.Issues), strings.Join(parts, "; "))
}

// Unwrap exposes an INVALID_GRAPH *Error so Is(err, ErrCodeInvalidGraph)
// matches validation failures.
func (e *ValidationError) Unwrap() error {
	return &Error{Code: ErrCodeInvalidGraph, Message: e.summary()}
}

func (e *ValidationError) summary() string {
	if len(e.Issues) == 1 {
		return e.Issues[0].String()
	}
	return fmt.Sprintf("%d invalid graph entries", len(e.Issues))
}

// Has reports whether any issue has the given kind.
func (e *ValidationError) Has(kind IssueKind) bool {
	for _, is := range e.Issues {
		if is.Kind == kind {
			return true
		}
	}
	return false
}
