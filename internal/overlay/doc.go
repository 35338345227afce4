// Package overlay maintains a transactional object graph over a lir
// module. Every overlay node projects onto a lir node; overlay edits
// write through to lir immediately, so the two graphs never diverge.
//
// Overlay nodes are created lazily and canonically: a Context maps each
// lir node to at most one overlay node, created on first access. All
// mutation goes through the overlay API, which records inverse actions
// on the Context's checkpoint stack. Save opens a checkpoint, Revert
// undoes everything back to it (including resurrecting erased nodes),
// Accept commits it. Checkpoints nest; accepting an inner checkpoint
// folds its log into the enclosing one so an outer Revert still
// restores the outer state.
//
// The graph is single-threaded: no locking, and iterators are
// invalidated by structural mutation.
package overlay
