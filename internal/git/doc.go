// Package git runs git for the rest of the application.
//
// Reads that only inspect refs and objects (branch listing, HEAD, metadata
// blobs) go through go-git. Everything that changes the working copy or refs
// shells out to the git executable through CommandRunner, which converts a
// non-zero exit into an ExitFailedError carrying the command's output.
//
// This package should be the only place where direct git commands are executed.
package git
