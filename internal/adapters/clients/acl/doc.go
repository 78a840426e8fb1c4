// Package acl translates between the remote blob service's wire format and
// the content store's ports. Remote envelopes and error bodies never leave
// this package; callers see raw blobs and domain errors.
package acl
