/*
Package engine is the HTTP/JSON accessor for the node-local storage engine:
snapshots of the local database/shard tree, database metadata, follower
enumeration, and the hand-off of action descriptions to the engine's
asynchronous executor. The engine itself lives in the database server
process, not here.
*/
package engine
