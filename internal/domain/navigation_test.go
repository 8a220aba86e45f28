package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// newTestSession builds a session with n records in catalog order
func newTestSession(n int) *SearchSession {
	records := make([]*FilmRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, &FilmRecord{
			Title:         fmt.Sprintf("Film %d", i+1),
			Year:          "2000",
			CatalogRating: "7.0",
			WatchLink:     fmt.Sprintf("https://catalog.test/movies/%d", i+1),
		})
	}
	return NewSearchSession(42, 100, "test query", records)
}

// checkIndexInvariant verifies 0 <= CurrentIndex < len(records)
func checkIndexInvariant(t *testing.T, s *SearchSession) {
	t.Helper()
	if s.CurrentIndex < 0 || s.CurrentIndex >= s.Len() {
		t.Fatalf("CurrentIndex %d out of bounds for %d records", s.CurrentIndex, s.Len())
	}
}

// TestNewSearchSessionStartsBrowsingAtFirstRecord tests initial session state
func TestNewSearchSessionStartsBrowsingAtFirstRecord(t *testing.T) {
	s := newTestSession(5)

	if s.CurrentIndex != 0 {
		t.Errorf("expected CurrentIndex 0, got %d", s.CurrentIndex)
	}
	if s.NavState != StateBrowsing {
		t.Errorf("expected state %q, got %q", StateBrowsing, s.NavState)
	}
	if s.ID.String() == "" {
		t.Error("expected session ID to be set")
	}
}

// TestPrevAtFirstRecordIsNoOp tests the prev guard at the lower bound
func TestPrevAtFirstRecordIsNoOp(t *testing.T) {
	s := newTestSession(5)

	outcome, err := Apply(context.Background(), s, ActionPrev)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if outcome != OutcomeNone {
		t.Errorf("expected OutcomeNone, got %q", outcome)
	}
	if s.CurrentIndex != 0 {
		t.Errorf("expected CurrentIndex to stay 0, got %d", s.CurrentIndex)
	}
	if s.NavState != StateBrowsing {
		t.Errorf("expected state to stay %q, got %q", StateBrowsing, s.NavState)
	}
}

// TestNextAtLastRecordIsNoOp tests the next guard at the upper bound
func TestNextAtLastRecordIsNoOp(t *testing.T) {
	s := newTestSession(3)
	s.CurrentIndex = 2

	outcome, err := Apply(context.Background(), s, ActionNext)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if outcome != OutcomeNone {
		t.Errorf("expected OutcomeNone, got %q", outcome)
	}
	if s.CurrentIndex != 2 {
		t.Errorf("expected CurrentIndex to stay 2, got %d", s.CurrentIndex)
	}
}

// TestPrevNextMoveWithinBounds tests stepping keeps the index invariant
func TestPrevNextMoveWithinBounds(t *testing.T) {
	s := newTestSession(4)

	for i := 0; i < 6; i++ {
		if _, err := Apply(context.Background(), s, ActionNext); err != nil {
			t.Fatalf("next failed: %v", err)
		}
		checkIndexInvariant(t, s)
	}
	if s.CurrentIndex != 3 {
		t.Errorf("expected CurrentIndex 3 after stepping past the end, got %d", s.CurrentIndex)
	}

	for i := 0; i < 6; i++ {
		if _, err := Apply(context.Background(), s, ActionPrev); err != nil {
			t.Fatalf("prev failed: %v", err)
		}
		checkIndexInvariant(t, s)
	}
	if s.CurrentIndex != 0 {
		t.Errorf("expected CurrentIndex 0 after stepping past the start, got %d", s.CurrentIndex)
	}
}

// TestOpenListRequiresMoreThanThreeRecords tests the list guard
func TestOpenListRequiresMoreThanThreeRecords(t *testing.T) {
	s := newTestSession(3)

	outcome, err := Apply(context.Background(), s, ActionOpenList)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if outcome != OutcomeNone {
		t.Errorf("expected OutcomeNone for %d records, got %q", s.Len(), outcome)
	}
	if s.NavState != StateBrowsing {
		t.Errorf("expected state to stay %q, got %q", StateBrowsing, s.NavState)
	}
}

// TestOpenListEntersAwaitingNumber tests the open-list transition
func TestOpenListEntersAwaitingNumber(t *testing.T) {
	s := newTestSession(4)

	outcome, err := Apply(context.Background(), s, ActionOpenList)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if outcome != OutcomeShowList {
		t.Errorf("expected OutcomeShowList, got %q", outcome)
	}
	if s.NavState != StateAwaitingNumber {
		t.Errorf("expected state %q, got %q", StateAwaitingNumber, s.NavState)
	}
}

// TestSelectOutOfRangeLeavesStateUnchanged tests the selection range guard
func TestSelectOutOfRangeLeavesStateUnchanged(t *testing.T) {
	s := newTestSession(5)
	s.NavState = StateAwaitingNumber

	for _, n := range []int{0, -1, 6, 100} {
		outcome, err := ApplySelect(context.Background(), s, n)
		if err != nil {
			t.Fatalf("select(%d): expected no error, got %v", n, err)
		}
		if outcome != OutcomeRepromptRange {
			t.Errorf("select(%d): expected OutcomeRepromptRange, got %q", n, outcome)
		}
		if s.NavState != StateAwaitingNumber {
			t.Errorf("select(%d): expected state %q, got %q", n, StateAwaitingNumber, s.NavState)
		}
		if s.CurrentIndex != 0 {
			t.Errorf("select(%d): expected CurrentIndex unchanged, got %d", n, s.CurrentIndex)
		}
	}
}

// TestSelectThenConfirmSetsCurrentIndex tests accepting a tentative selection
func TestSelectThenConfirmSetsCurrentIndex(t *testing.T) {
	s := newTestSession(5)
	s.NavState = StateAwaitingNumber

	outcome, err := ApplySelect(context.Background(), s, 4)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if outcome != OutcomeShowConfirm {
		t.Errorf("expected OutcomeShowConfirm, got %q", outcome)
	}
	if s.NavState != StateConfirmingChoice {
		t.Errorf("expected state %q, got %q", StateConfirmingChoice, s.NavState)
	}
	if s.PendingChoice != 3 {
		t.Errorf("expected PendingChoice 3, got %d", s.PendingChoice)
	}
	if s.CurrentIndex != 0 {
		t.Errorf("expected CurrentIndex untouched before confirm, got %d", s.CurrentIndex)
	}

	outcome, err = Apply(context.Background(), s, ActionConfirm)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if outcome != OutcomeConfirmed {
		t.Errorf("expected OutcomeConfirmed, got %q", outcome)
	}
	if s.CurrentIndex != 3 {
		t.Errorf("expected CurrentIndex 3 after confirm, got %d", s.CurrentIndex)
	}
	if s.NavState != StateBrowsing {
		t.Errorf("expected state %q after confirm, got %q", StateBrowsing, s.NavState)
	}
}

// TestSelectThenRejectReturnsToAwaitingNumber tests rejecting a tentative selection
func TestSelectThenRejectReturnsToAwaitingNumber(t *testing.T) {
	s := newTestSession(5)
	s.NavState = StateAwaitingNumber

	if _, err := ApplySelect(context.Background(), s, 2); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	outcome, err := Apply(context.Background(), s, ActionReject)
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if outcome != OutcomeCloseConfirm {
		t.Errorf("expected OutcomeCloseConfirm, got %q", outcome)
	}
	if s.NavState != StateAwaitingNumber {
		t.Errorf("expected state %q after reject, got %q", StateAwaitingNumber, s.NavState)
	}
	if s.CurrentIndex != 0 {
		t.Errorf("expected CurrentIndex unchanged after reject, got %d", s.CurrentIndex)
	}
}

// TestActionNotLegalInStateIsRejected tests illegal (state, action) pairs
func TestActionNotLegalInStateIsRejected(t *testing.T) {
	s := newTestSession(5)
	s.CurrentIndex = 2
	s.NavState = StateAwaitingNumber

	_, err := Apply(context.Background(), s, ActionPrev)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition for prev in %q, got %v", s.NavState, err)
	}
	if s.CurrentIndex != 2 {
		t.Errorf("expected CurrentIndex unchanged, got %d", s.CurrentIndex)
	}

	s.NavState = StateBrowsing
	_, err = ApplySelect(context.Background(), s, 1)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition for select in %q, got %v", s.NavState, err)
	}
}

// TestSelectOutOfRangeOutsideListIsRejected tests that the state check wins
// over the range check: no re-prompt outside StateAwaitingNumber.
func TestSelectOutOfRangeOutsideListIsRejected(t *testing.T) {
	for _, state := range []NavState{StateBrowsing, StateConfirmingChoice} {
		s := newTestSession(5)
		s.NavState = state

		outcome, err := ApplySelect(context.Background(), s, 99)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("state %q: expected ErrInvalidTransition, got %v", state, err)
		}
		if outcome == OutcomeRepromptRange {
			t.Errorf("state %q: expected no range re-prompt", state)
		}
		if s.NavState != state {
			t.Errorf("state %q: expected state unchanged, got %q", state, s.NavState)
		}
	}
}

// TestBrowseSelectConfirmFlow walks a five-record session through navigation,
// list selection, rejection and confirmation
func TestBrowseSelectConfirmFlow(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(5)

	for i := 0; i < 4; i++ {
		if _, err := Apply(ctx, s, ActionNext); err != nil {
			t.Fatalf("next %d failed: %v", i, err)
		}
	}
	if s.CurrentIndex != 4 {
		t.Fatalf("expected CurrentIndex 4, got %d", s.CurrentIndex)
	}

	outcome, err := Apply(ctx, s, ActionNext)
	if err != nil || outcome != OutcomeNone {
		t.Fatalf("expected next past end to be a no-op, got outcome %q err %v", outcome, err)
	}

	outcome, err = Apply(ctx, s, ActionOpenList)
	if err != nil || outcome != OutcomeShowList {
		t.Fatalf("expected open-list to show the list, got outcome %q err %v", outcome, err)
	}

	outcome, err = ApplySelect(ctx, s, 3)
	if err != nil || outcome != OutcomeShowConfirm {
		t.Fatalf("expected select(3) to show confirmation, got outcome %q err %v", outcome, err)
	}
	if s.PendingChoice != 2 {
		t.Fatalf("expected PendingChoice 2, got %d", s.PendingChoice)
	}

	if _, err := Apply(ctx, s, ActionReject); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if s.NavState != StateAwaitingNumber {
		t.Fatalf("expected state %q after reject, got %q", StateAwaitingNumber, s.NavState)
	}

	if _, err := ApplySelect(ctx, s, 2); err != nil {
		t.Fatalf("select(2) failed: %v", err)
	}
	if _, err := Apply(ctx, s, ActionConfirm); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	if s.CurrentIndex != 1 {
		t.Errorf("expected CurrentIndex 1, got %d", s.CurrentIndex)
	}
	if s.NavState != StateBrowsing {
		t.Errorf("expected state %q, got %q", StateBrowsing, s.NavState)
	}
	checkIndexInvariant(t, s)
}
