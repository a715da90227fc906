/*
Package agency is the HTTP/JSON client for the coordination store holding
Plan and Current. The store itself, including its consensus, is external;
this package only reads snapshots and applies report operations and
compare-and-set transactions on behalf of the reconciliation agent.
*/
package agency
