package engine

import (
	"slices"
)

// isSelfOrDescendantInternal reports whether candidate is branchName or lies above it.
// Caller must hold e.mu.
func (e *engineImpl) isSelfOrDescendantInternal(branchName, candidate string) bool {
	if candidate == branchName {
		return true
	}
	return slices.Contains(e.descendantsInternal(branchName), candidate)
}

// setParentInternal updates the in-memory maps. Caller must hold e.mu.
func (e *engineImpl) setParentInternal(branchName, parentBranchName string) {
	if oldParent, ok := e.parentMap[branchName]; ok {
		e.childrenMap[oldParent] = slices.DeleteFunc(e.childrenMap[oldParent], func(s string) bool {
			return s == branchName
		})
		if len(e.childrenMap[oldParent]) == 0 {
			delete(e.childrenMap, oldParent)
		}
	}
	e.parentMap[branchName] = parentBranchName
	if !slices.Contains(e.childrenMap[parentBranchName], branchName) {
		e.childrenMap[parentBranchName] = append(e.childrenMap[parentBranchName], branchName)
	}
}

// removeInternal drops a branch from the in-memory maps. Caller must hold e.mu.
func (e *engineImpl) removeInternal(branchName string) {
	if oldParent, ok := e.parentMap[branchName]; ok {
		e.childrenMap[oldParent] = slices.DeleteFunc(e.childrenMap[oldParent], func(s string) bool {
			return s == branchName
		})
		if len(e.childrenMap[oldParent]) == 0 {
			delete(e.childrenMap, oldParent)
		}
	}
	delete(e.parentMap, branchName)
	delete(e.reviews, branchName)
}

func getStringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
