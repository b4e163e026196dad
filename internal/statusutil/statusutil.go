// Package statusutil normalizes the status enums shared by the CLI and TUI.
package statusutil

import (
	"fmt"
	"strings"

	"upi-cli/internal/model"
)

// NormalizeApplicationStatus parses user input into a review status.
func NormalizeApplicationStatus(s string) (model.ApplicationStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return model.ApplicationPending, nil
	case "reviewing":
		return model.ApplicationReviewing, nil
	case "accepted":
		return model.ApplicationAccepted, nil
	case "rejected":
		return model.ApplicationRejected, nil
	}
	return "", fmt.Errorf("invalid status: %s (allowed: pending|reviewing|accepted|rejected)", s)
}

// NextApplicationStatus cycles through the review pipeline in order.
func NextApplicationStatus(s model.ApplicationStatus) model.ApplicationStatus {
	switch s {
	case model.ApplicationPending:
		return model.ApplicationReviewing
	case model.ApplicationReviewing:
		return model.ApplicationAccepted
	case model.ApplicationAccepted:
		return model.ApplicationRejected
	default:
		return model.ApplicationPending
	}
}

// NormalizePostStatus parses user input into a post status.
func NormalizePostStatus(s string) (model.PostStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "draft":
		return model.PostStatusDraft, nil
	case "published":
		return model.PostStatusPublished, nil
	case "archived":
		return model.PostStatusArchived, nil
	}
	return "", fmt.Errorf("invalid status: %s (allowed: draft|published|archived)", s)
}
