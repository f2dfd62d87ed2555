// Package actions provides the stack operations behind restack's commands.
//
// Each action corresponds to a command (onto, restack, continue, sync, ...)
// and orchestrates operations across the engine, git, checkpoint and github
// packages.
//
// Key patterns:
//   - Actions accept runtime.Context which provides Engine, Splog, and other dependencies
//   - Actions are stateless; branch relationships live in the Engine and
//     suspended operations live in the checkpoint store
//   - Operations that can stop at a rebase conflict return an Outcome
//     rather than an error
package actions
