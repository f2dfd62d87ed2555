package git

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"

	restackerrors "stackit.dev/restack/internal/errors"
)

// MetadataRefPrefix is the ref namespace holding one JSON blob per tracked branch
const MetadataRefPrefix = "refs/restack/metadata/"

// Meta represents branch metadata stored in Git refs
type Meta struct {
	ParentBranchName     *string `json:"parentBranchName,omitempty"`
	ParentBranchRevision *string `json:"parentBranchRevision,omitempty"`
	PrInfo               *PrInfo `json:"prInfo,omitempty"`
}

// PrInfo is the cached review record for a branch
type PrInfo struct {
	Number *int    `json:"number,omitempty"`
	Base   *string `json:"base,omitempty"`
	URL    *string `json:"url,omitempty"`
	State  *string `json:"state,omitempty"`
}

func metadataRefName(branchName string) string {
	return MetadataRefPrefix + branchName
}

// ReadMetadataRef reads metadata for a branch.
// It returns a nil Meta and no error when the branch has no record.
func (r *Repository) ReadMetadataRef(branchName string) (*Meta, error) {
	ref, err := r.repo.Reference(plumbing.ReferenceName(metadataRefName(branchName)), false)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata ref for %s: %w", branchName, err)
	}

	blob, err := r.repo.BlobObject(ref.Hash())
	if err != nil {
		return nil, restackerrors.NewCorruptMetadataError(branchName, fmt.Sprintf("metadata ref does not point at a blob: %v", err))
	}
	reader, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata blob for %s: %w", branchName, err)
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata blob for %s: %w", branchName, err)
	}

	var meta Meta
	if err := json.Unmarshal(content, &meta); err != nil {
		return nil, restackerrors.NewCorruptMetadataError(branchName, fmt.Sprintf("invalid metadata json: %v", err))
	}
	return &meta, nil
}

// WriteMetadataRef stores meta as a blob and points the branch's metadata ref at it
func (r *Repository) WriteMetadataRef(ctx context.Context, branchName string, meta *Meta) error {
	jsonData, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	sha, err := r.runner.RunWithInput(ctx, string(jsonData), "hash-object", "-w", "--stdin")
	if err != nil {
		return fmt.Errorf("failed to create metadata blob: %w", err)
	}

	_, err = r.runner.Run(ctx, "update-ref", metadataRefName(branchName), sha)
	if err != nil {
		return fmt.Errorf("failed to write metadata ref: %w", err)
	}
	return nil
}

// DeleteMetadataRef removes the metadata ref for a branch
func (r *Repository) DeleteMetadataRef(ctx context.Context, branchName string) error {
	_, err := r.runner.Run(ctx, "update-ref", "-d", metadataRefName(branchName))
	if err != nil {
		return fmt.Errorf("failed to delete metadata ref for %s: %w", branchName, err)
	}
	return nil
}

// ListMetadataRefs returns the branch names that have a metadata record,
// whether or not the branch itself still exists.
func (r *Repository) ListMetadataRefs() ([]string, error) {
	refs, err := r.repo.References()
	if err != nil {
		return nil, fmt.Errorf("failed to get references: %w", err)
	}

	var names []string
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().String()
		if strings.HasPrefix(name, MetadataRefPrefix) {
			names = append(names, strings.TrimPrefix(name, MetadataRefPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate references: %w", err)
	}
	return names, nil
}
