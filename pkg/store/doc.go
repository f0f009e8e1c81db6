// Package store provides the observable value cell backing all form
// state: data, touched, errors, warnings, isSubmitting and isDirty.
//
// A Store notifies subscribers synchronously, both at subscription time
// and on every subsequent Set or Update. Subscription order is
// registration order.
package store
