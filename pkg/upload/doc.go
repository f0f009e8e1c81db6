// Package upload stages form file uploads.
//
// File controls carry metadata, not bytes, so submissions stay small:
// the client posts each file to the upload handler ahead of time and
// receives a temp ID, and Stage rewrites the submission snapshot to
// reference those IDs. The backend claims the staged files once it
// accepts the submission; files nobody claims expire via Cleanup.
//
// Two stores ship with the package: DiskStore for single-process
// deployments and S3Store for anything that needs shared storage.
package upload
