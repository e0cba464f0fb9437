// Package s3 provides the blob storage used to back up bastion key material.
//
// Buckets are created on demand in a chosen region and objects are written
// with server-side encryption requested. A missing object is reported as
// [ErrObjectNotFound] so callers can tell "never backed up" from a failure.
package s3
