/*
Package types defines the document model shared by the maintd packages.

Plan, Local and Current are the three point-in-time snapshots a
reconciliation pass works on:

	Plan     desired cluster state, written by the supervisor
	Local    what this node's storage engine actually holds
	Current  what every node has reported about itself

All three are tree-shaped and JSON-interchangeable. Typed structs cover the
stable skeleton (databases, collections, shards, server lists) while
Document, a generic map, covers the semi-structured parts whose field sets
are owned elsewhere: collection properties, index descriptions and report
payloads.

Action, ReportOp and Transaction are the outputs of a pass: corrective
action descriptions for the executor, report writes and compare-and-set
transaction pairs for the coordination store.
*/
package types
