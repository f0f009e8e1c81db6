// Package transport ships submit actions that carry a submission
// snapshot over the network: HTTP posts (JSON or urlencoded) and
// WebSocket frames.
//
// Both transports report server-side rejection as *RequestError, which
// error-recovery functions can unwrap to map the response back onto
// the error tree.
package transport
