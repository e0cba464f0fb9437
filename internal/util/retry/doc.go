// Package retry provides retry loops for operations against remote APIs.
//
// [WithExponentialBackoff] retries a failing operation with growing delays and
// is used for connection attempts. [Poll] re-evaluates a condition at a fixed
// interval and is used to wait for asynchronous state transitions such as an
// instance reaching "running".
package retry
