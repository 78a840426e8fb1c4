// Package app holds the content store of the campus Q&A board and the
// banned-word service. It depends only on domain types and the ports
// interfaces; storage and transport live in internal/adapters.
package app
