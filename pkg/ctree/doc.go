// Package ctree models the abstract control tree the form engine binds
// to: a mutable element tree with attributes, control state, bubbling
// value events and child-list mutation observation.
//
// It stands in for the DOM. Hosts that bind real UI surfaces translate
// their native events and structural changes into ctree operations; the
// engine itself never touches anything host-specific.
//
// The tree is not safe for concurrent mutation. One binding is
// event-driven and single-threaded: event dispatch, mutation delivery
// and submission steps all run on the caller's goroutine.
package ctree
