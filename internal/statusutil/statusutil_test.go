package statusutil

import (
	"testing"

	"upi-cli/internal/model"
)

func TestNormalizeApplicationStatus(t *testing.T) {
	st, err := NormalizeApplicationStatus("  Reviewing ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st != model.ApplicationReviewing {
		t.Fatalf("got %s", st)
	}

	if _, err := NormalizeApplicationStatus("approved"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestNextApplicationStatus_Cycles(t *testing.T) {
	order := []model.ApplicationStatus{
		model.ApplicationPending,
		model.ApplicationReviewing,
		model.ApplicationAccepted,
		model.ApplicationRejected,
		model.ApplicationPending,
	}
	for i := 0; i < len(order)-1; i++ {
		if got := NextApplicationStatus(order[i]); got != order[i+1] {
			t.Fatalf("NextApplicationStatus(%s) = %s; want %s", order[i], got, order[i+1])
		}
	}
}

func TestNormalizePostStatus(t *testing.T) {
	st, err := NormalizePostStatus("PUBLISHED")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st != model.PostStatusPublished {
		t.Fatalf("got %s", st)
	}
	if _, err := NormalizePostStatus("live"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
