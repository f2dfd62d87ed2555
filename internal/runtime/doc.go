// Package runtime provides the execution context for restack commands.
//
// It encapsulates shared dependencies needed by actions, such as the engine
// instance, the checkpoint store, the logger and the review collaborator.
package runtime
