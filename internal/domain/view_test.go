package domain

import (
	"fmt"
	"strings"
	"testing"
)

// TestRecordViewControlsAtBounds tests positional control derivation
func TestRecordViewControlsAtBounds(t *testing.T) {
	s := newTestSession(5)

	view := BuildRecordView(s)
	if view.Controls.Prev {
		t.Error("expected no prev control at the first record")
	}
	if !view.Controls.Next {
		t.Error("expected next control at the first record")
	}

	s.CurrentIndex = 2
	view = BuildRecordView(s)
	if !view.Controls.Prev || !view.Controls.Next {
		t.Error("expected both step controls in the middle")
	}

	s.CurrentIndex = 4
	view = BuildRecordView(s)
	if !view.Controls.Prev {
		t.Error("expected prev control at the last record")
	}
	if view.Controls.Next {
		t.Error("expected no next control at the last record")
	}
}

// TestRecordViewListControlRequiresEnoughRecords tests the list control threshold
func TestRecordViewListControlRequiresEnoughRecords(t *testing.T) {
	s := newTestSession(3)
	if view := BuildRecordView(s); view.Controls.List {
		t.Errorf("expected no list control for %d records", s.Len())
	}

	s = newTestSession(4)
	if view := BuildRecordView(s); !view.Controls.List {
		t.Errorf("expected list control for %d records", s.Len())
	}
}

// TestRecordViewCaptionContainsPositionAndQuery tests caption content
func TestRecordViewCaptionContainsPositionAndQuery(t *testing.T) {
	s := newTestSession(5)
	s.CurrentIndex = 2
	s.Current().FillRatings(Ratings{Kinopoisk: "8.5", IMDb: "8.7"})

	view := BuildRecordView(s)
	if !strings.Contains(view.Caption, "Позиция: 3 из 5") {
		t.Errorf("expected position line in caption, got %q", view.Caption)
	}
	if !strings.Contains(view.Caption, "<i>test query</i>") {
		t.Errorf("expected query line in caption, got %q", view.Caption)
	}
	if !strings.Contains(view.Caption, "Кинопоиск: <b>8.5</b>") {
		t.Errorf("expected filled ratings in caption, got %q", view.Caption)
	}
}

// TestRecordViewUsesPlaceholderRatingsWhenUnfilled tests the unfilled ratings fallback
func TestRecordViewUsesPlaceholderRatingsWhenUnfilled(t *testing.T) {
	s := newTestSession(1)

	view := BuildRecordView(s)
	if !strings.Contains(view.Caption, fmt.Sprintf("Кинопоиск: <b>%s</b>", RatingPlaceholder)) {
		t.Errorf("expected placeholder rating in caption, got %q", view.Caption)
	}
}

// TestListViewCapsEntriesAndReportsRemainder tests the list cap
func TestListViewCapsEntriesAndReportsRemainder(t *testing.T) {
	s := newTestSession(12)

	view := BuildListView(s, 10)
	if !strings.Contains(view.Text, "<b>10.</b>") {
		t.Errorf("expected entry 10 in list, got %q", view.Text)
	}
	if strings.Contains(view.Text, "<b>11.</b>") {
		t.Errorf("expected no entry 11 in list, got %q", view.Text)
	}
	if !strings.Contains(view.Text, "и ещё 2 вариантов") {
		t.Errorf("expected remainder line in list, got %q", view.Text)
	}
}

// TestListViewNoRemainderAtOrBelowCap tests the remainder line is absent when not needed
func TestListViewNoRemainderAtOrBelowCap(t *testing.T) {
	s := newTestSession(5)

	view := BuildListView(s, 10)
	if !strings.Contains(view.Text, "<b>5.</b>") {
		t.Errorf("expected entry 5 in list, got %q", view.Text)
	}
	if strings.Contains(view.Text, "и ещё") {
		t.Errorf("expected no remainder line, got %q", view.Text)
	}
}

// TestListViewTruncatesLongTitles tests the per-entry title cap
func TestListViewTruncatesLongTitles(t *testing.T) {
	long := strings.Repeat("ы", 100)
	s := NewSearchSession(1, 10, "запрос", []*FilmRecord{
		{Title: long, CatalogRating: "7.0"},
	})

	view := BuildListView(s, 10)
	want := strings.Repeat("ы", 77) + "..."
	if !strings.Contains(view.Text, want) {
		t.Errorf("expected truncated title in list, got %q", view.Text)
	}
	if strings.Contains(view.Text, strings.Repeat("ы", 78)) {
		t.Errorf("expected title cut at 77 runes, got %q", view.Text)
	}
}

// TestConfirmViewUsesPendingChoice tests the tentative selection view
func TestConfirmViewUsesPendingChoice(t *testing.T) {
	s := newTestSession(5)
	s.PendingChoice = 3

	view := BuildConfirmView(s)
	if !strings.Contains(view.Caption, "Film 4") {
		t.Errorf("expected pending record title in caption, got %q", view.Caption)
	}
	if view.WatchLink != s.Records[3].WatchLink {
		t.Errorf("expected pending record watch link, got %q", view.WatchLink)
	}
}

// TestFrozenViewMarksOldSearch tests the superseded session view
func TestFrozenViewMarksOldSearch(t *testing.T) {
	s := newTestSession(5)
	s.CurrentIndex = 2

	view := BuildFrozenView(s)
	if !strings.Contains(view.Caption, "(старый поиск)") {
		t.Errorf("expected stale marker in caption, got %q", view.Caption)
	}
	if !strings.Contains(view.Caption, "Film 3") {
		t.Errorf("expected current record title in caption, got %q", view.Caption)
	}
	if view.WatchLink != s.Records[2].WatchLink {
		t.Errorf("expected current record watch link, got %q", view.WatchLink)
	}
}
