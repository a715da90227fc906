/*
Package agent drives periodic reconciliation passes for one database server.

The agent owns nothing the core computes with: every pass re-reads Plan and
Current from the coordination store and Local from the storage engine, runs
the maintenance core over the three snapshots, hands corrective actions to
the queue and pushes report writes back upstream. Passes are serialized with
a mutex so an overlapping tick cannot interleave with a slow pass.

Like the core, the agent is level-triggered: it keeps no memory between
passes, so a missed or failed pass costs nothing but latency - the next tick
converges from fresh snapshots.
*/
package agent
