// Package form is the bidirectional synchronization engine between a
// tree-shaped data store and a flat, name-addressed set of controls,
// plus the submission state machine sequencing validation, data
// snapshotting, transport and error recovery.
//
// Bind returns a Binding that owns six stores (data, touched, errors,
// warnings, isSubmitting, isDirty), keeps them consistent with live
// user interaction and with structural changes to the control tree,
// and produces submit handlers via CreateSubmitHandler.
//
// Everything within one binding is event-driven and single-threaded:
// value handlers, mutation reconciliation and submission steps run on
// the calling goroutine, suspending only at validator, warner and
// submit-action boundaries.
package form
