package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// BatchInvalidate invalidates multiple patterns in batch
func BatchInvalidate(ctx context.Context, helper *CacheHelper, patterns []string) error {
	var lastErr error
	for _, pattern := range patterns {
		if err := helper.InvalidatePattern(ctx, pattern); err != nil {
			lastErr = err
			slog.ErrorContext(ctx, "Failed to invalidate pattern in batch",
				"error", err,
				"pattern", pattern)
		}
	}
	return lastErr
}

// InvalidateComplaintCache invalidates all complaint-related caches
func InvalidateComplaintCache(ctx context.Context, cm *CacheManager, complaintID uint, ownerID string) {
	SafeDelete(ctx, cm.Complaint,
		fmt.Sprintf("id:%d", complaintID),
		fmt.Sprintf("details:%d", complaintID))

	SafeInvalidatePattern(ctx, cm.Complaint, fmt.Sprintf("owner:%s:*", ownerID))
	SafeInvalidatePattern(ctx, cm.Complaint, "list:*")
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("complaint:%d:*", complaintID))
}
