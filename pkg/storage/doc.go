/*
Package storage persists reconciliation pass outcomes in a local bbolt file.

The journal is purely observational: it records what each pass consulted
(Plan/Current versions) and decided (action count, report document) so an
operator can answer "what did the last pass do" without the coordination
store. The reconciliation core never reads it.
*/
package storage
