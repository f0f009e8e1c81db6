// Package extenders ships ready-made extenders for form bindings:
// Prometheus metrics, OpenTelemetry tracing and structured logging.
//
// Each extender times submissions by observing the isSubmitting store,
// which brackets exactly one pipeline run, and learns about failures
// through the submit-error hook. All of them release their store
// subscriptions on Destroy, so remounts never leak.
package extenders
