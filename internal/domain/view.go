package domain

import (
	"fmt"
	"strings"
)

// Captions are HTML-formatted for the transport, matching the catalog's audience language.

const listTitleMaxLen = 80

// ControlSet lists the navigation controls enabled for a record view.
// Derivation is purely positional: prev/next at the bounds are absent,
// the list control appears only past the ListThreshold.
type ControlSet struct {
	Prev      bool
	Next      bool
	List      bool
	WatchLink string
}

// RecordView is the renderable payload for a single record
type RecordView struct {
	PosterURL string
	Caption   string
	Controls  ControlSet
}

// ListView is the renderable payload for the numbered variant list
type ListView struct {
	Text string
}

// ConfirmView is the renderable payload for a tentative selection
type ConfirmView struct {
	PosterURL string
	Caption   string
	WatchLink string
}

// FrozenView is the final, action-less rendering of a superseded session's record
type FrozenView struct {
	PosterURL string
	Caption   string
	WatchLink string
}

// BuildRecordView derives the primary record view from the session.
// External ratings must already be filled on the current record.
func BuildRecordView(s *SearchSession) RecordView {
	rec := s.Current()
	ratings, ok := rec.CachedRatings()
	if !ok {
		ratings = PlaceholderRatings
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎥 <b>%s</b>", rec.Title)
	if rec.Year != "" {
		fmt.Fprintf(&b, " (%s)", rec.Year)
	}
	b.WriteString("\n\n⭐ <b>Рейтинги:</b>\n")
	fmt.Fprintf(&b, "   🇷🇺 Кинопоиск: <b>%s</b>\n", ratings.Kinopoisk)
	fmt.Fprintf(&b, "   🌍 IMDb: <b>%s</b>\n", ratings.IMDb)
	fmt.Fprintf(&b, "   🏠 Zona: <b>%s</b>\n\n", rec.CatalogRating)
	fmt.Fprintf(&b, "📊 Позиция: %d из %d\n", s.CurrentIndex+1, s.Len())
	fmt.Fprintf(&b, "🔍 Запрос: <i>%s</i>", s.Query)

	return RecordView{
		PosterURL: rec.PosterURL,
		Caption:   b.String(),
		Controls: ControlSet{
			Prev:      s.CurrentIndex > 0,
			Next:      s.CurrentIndex < s.Len()-1,
			List:      s.Len() > ListThreshold,
			WatchLink: rec.WatchLink,
		},
	}
}

// BuildListView derives the numbered variant list, capped at max entries.
// When more records exist than the cap, a trailing line states the remainder.
func BuildListView(s *SearchSession, max int) ListView {
	var b strings.Builder
	b.WriteString("📋 <b>Все найденные варианты:</b>\n\n")

	shown := s.Len()
	if shown > max {
		shown = max
	}
	for i := 0; i < shown; i++ {
		rec := s.Records[i]
		title := rec.FullTitle()
		if len([]rune(title)) > listTitleMaxLen {
			title = string([]rune(title)[:listTitleMaxLen-3]) + "..."
		}
		fmt.Fprintf(&b, "<b>%d.</b> %s — ⭐ %s\n", i+1, title, rec.CatalogRating)
	}

	if s.Len() > max {
		fmt.Fprintf(&b, "\n... и ещё %d вариантов", s.Len()-max)
	}

	b.WriteString("\n\nНапиши номер нужного фильма или нажми «Закрыть»")

	return ListView{Text: b.String()}
}

// BuildConfirmView derives the tentative selection view from the pending choice
func BuildConfirmView(s *SearchSession) ConfirmView {
	rec := s.Records[s.PendingChoice]

	var b strings.Builder
	b.WriteString("🔍 <b>Это тот фильм?</b>\n\n")
	fmt.Fprintf(&b, "<b>%s</b>", rec.Title)
	if rec.Year != "" {
		fmt.Fprintf(&b, " (%s)", rec.Year)
	}
	fmt.Fprintf(&b, "\n⭐ <b>Рейтинг Zona:</b> %s", rec.CatalogRating)

	return ConfirmView{
		PosterURL: rec.PosterURL,
		Caption:   b.String(),
		WatchLink: rec.WatchLink,
	}
}

// BuildFrozenView derives the action-less view shown once when a session is superseded
func BuildFrozenView(s *SearchSession) FrozenView {
	rec := s.Current()

	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>", rec.Title)
	if rec.Year != "" {
		fmt.Fprintf(&b, " (%s)", rec.Year)
	}
	fmt.Fprintf(&b, "\n⭐ <b>Рейтинг:</b> %s\n\n", rec.CatalogRating)
	fmt.Fprintf(&b, "<i>Запрос: %s (старый поиск)</i>", s.Query)

	return FrozenView{
		PosterURL: rec.PosterURL,
		Caption:   b.String(),
		WatchLink: rec.WatchLink,
	}
}
