// Package github is the review-platform collaborator. It fetches cached
// review records for branches and pushes updated pull request bases.
package github
