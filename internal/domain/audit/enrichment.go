// Package audit provides audit field enrichment for documents.
package audit

import (
	"context"

	appctx "fakturo/internal/core/context"
)

// StampCreated sets CreatedBy and UpdatedBy from the context user.
// If no user is in context (worker jobs, seeds), this is a no-op.
func StampCreated(ctx context.Context, createdBy, updatedBy *string) {
	userID := appctx.GetUserID(ctx)
	if userID != "" && createdBy != nil && updatedBy != nil {
		*createdBy = userID
		*updatedBy = userID
	}
}

// StampUpdated sets only UpdatedBy from the context user.
func StampUpdated(ctx context.Context, updatedBy *string) {
	userID := appctx.GetUserID(ctx)
	if userID != "" && updatedBy != nil {
		*updatedBy = userID
	}
}
