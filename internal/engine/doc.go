// Package engine manages the state and relationships of stacked branches.
//
// It is the only component that persists branch relationships. Every
// tracked branch has one metadata record, stored as a JSON blob under
// refs/restack/metadata/<branch>, holding its parent pointer, the parent
// revision it was last based on, and an optional cached review record.
// The records form a tree rooted at trunk; the engine refuses any parent
// change that would introduce a cycle.
//
// The engine also owns merge detection (see MergeDetector) and native branch
// deletion, which hands back a BranchDeletion so callers decide when the
// in-memory graph is refreshed.
package engine
