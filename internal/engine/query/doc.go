// Package query provides filtering and multi-key sorting over timeline
// snapshots for history inspection UIs. It never mutates the timeline;
// callers pass the copy returned by the store's Entries method.
package query
