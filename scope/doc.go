// Package scope defines the closed catalogue of permission scopes for the
// trading-platform tool server, the named scope bundles (readonly, trader,
// admin), and the static tool-to-scope requirement table.
//
// All tables are built once at package initialization and are immutable
// afterwards, so they are safe for unsynchronized concurrent reads.
package scope
