package jobs

import (
	"context"

	"printdesk-backend/internal/logger"
)

// CleanupOrphanArtifacts deletes stored files that no print request
// references anymore. Orphans appear when a delete removed the metadata
// row but the artifact removal failed.
func (jr *JobRunner) CleanupOrphanArtifacts() {
	jr.runWithRecovery("CleanupOrphanArtifacts", func() {
		ctx := context.Background()

		referenced, err := jr.store.ListStorageKeys(ctx)
		if err != nil {
			logger.Error("Failed to list referenced storage keys", "error", err)
			return
		}
		refSet := make(map[string]bool, len(referenced))
		for _, key := range referenced {
			refSet[key] = true
		}

		stored, err := jr.files.ListKeys(ctx)
		if err != nil {
			logger.Error("Failed to list stored artifacts", "error", err)
			return
		}

		removed := 0
		for _, key := range stored {
			if refSet[key] {
				continue
			}
			if err := jr.files.Delete(ctx, key); err != nil {
				logger.Error("Failed to delete orphan artifact", "key", key, "error", err)
				continue
			}
			removed++
		}

		logger.Info("Cleaned up orphan artifacts", "stored", len(stored), "removed", removed)
	})
}
