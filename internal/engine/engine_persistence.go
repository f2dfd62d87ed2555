package engine

import (
	"context"

	"stackit.dev/restack/internal/git"
)

// readMeta returns the branch's record or an empty one if it has none
func (e *engineImpl) readMeta(branchName string) (*git.Meta, error) {
	meta, err := e.git.ReadMetadataRef(branchName)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return &git.Meta{}, nil
	}
	return meta, nil
}

func (e *engineImpl) writeMeta(ctx context.Context, branchName string, meta *git.Meta) error {
	return e.git.WriteMetadataRef(ctx, branchName, meta)
}

func reviewRecordFromMeta(meta *git.Meta) *ReviewRecord {
	if meta == nil || meta.PrInfo == nil {
		return nil
	}
	record := &ReviewRecord{
		Base:  getStringValue(meta.PrInfo.Base),
		State: ReviewState(getStringValue(meta.PrInfo.State)),
		URL:   getStringValue(meta.PrInfo.URL),
	}
	if meta.PrInfo.Number != nil {
		record.Number = *meta.PrInfo.Number
	}
	return record
}

func prInfoFromReviewRecord(record ReviewRecord) *git.PrInfo {
	info := &git.PrInfo{
		Base:  stringPtr(record.Base),
		State: stringPtr(string(record.State)),
		URL:   stringPtr(record.URL),
	}
	if record.Number != 0 {
		number := record.Number
		info.Number = &number
	}
	return info
}
