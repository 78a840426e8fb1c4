// Package storage groups the ports.BlobStore backends. Each subpackage
// stores opaque JSON blobs keyed by collection name and reports missing
// keys with domain.ErrNotFound. Open selects one from configuration.
package storage
