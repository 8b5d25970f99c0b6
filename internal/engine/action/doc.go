// Package action defines the taxonomy of recorded document mutations.
//
// Every edit the host performs is described by an Action: a kind, a
// human-readable description, opaque before/after snapshots, and a
// derived classification (category, severity, reversibility). The
// classification is a pure function of the kind, computed once at
// construction; kinds are immutable after recording, so actions are
// never reclassified.
//
// Batch actions (KindBatch) aggregate an ordered run of child actions
// committed as a single undoable unit.
package action
