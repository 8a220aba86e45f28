package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"cinemabot/internal/domain"
	"cinemabot/internal/ports/output"

	"github.com/sirupsen/logrus"
)

const (
	defaultListCap = 10
	historyLimit   = 20
	topViewsLimit  = 15
)

// SearchService struct - Application service implementing the search and
// navigation use cases. All mutations of one user's session run under that
// user's lock; different users never share a lock.
type SearchService struct {
	catalog   output.CatalogClient
	sessions  output.SessionStore
	presenter output.Presenter
	stats     output.StatsRepository
	listCap   int

	locks sync.Map // userID -> *sync.Mutex
}

// NewSearchService func - Creates new search service.
// listCap caps the variant list length; zero applies the default.
func NewSearchService(
	catalog output.CatalogClient,
	sessions output.SessionStore,
	presenter output.Presenter,
	stats output.StatsRepository,
	listCap int,
) *SearchService {
	if listCap <= 0 {
		listCap = defaultListCap
	}
	return &SearchService{
		catalog:   catalog,
		sessions:  sessions,
		presenter: presenter,
		stats:     stats,
		listCap:   listCap,
	}
}

// userLock returns the mutex serializing one user's session mutations
func (s *SearchService) userLock(userID int64) *sync.Mutex {
	lock, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// HandleText func - Use case: route free text input. The text is a numeric
// selection while the session awaits one, otherwise a fresh search query.
// The state read and the handling happen under the same user lock.
func (s *SearchService) HandleText(ctx context.Context, userID, chatID int64, text string) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.sessions.Get(userID)
	if err != nil {
		return err
	}
	if session != nil && session.NavState == domain.StateAwaitingNumber {
		return s.applySelection(ctx, session, chatID, text)
	}
	return s.runSearch(ctx, userID, chatID, text)
}

// HandleSearch func - Use case: run a fresh catalog search.
// An existing session is frozen (its view keeps only the watch link) and
// discarded before the new one becomes active. Empty extraction results
// produce a "nothing found" notice and no session.
func (s *SearchService) HandleSearch(ctx context.Context, userID, chatID int64, query string) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	return s.runSearch(ctx, userID, chatID, query)
}

// runSearch executes the search use case. The caller must hold the user's lock.
func (s *SearchService) runSearch(ctx context.Context, userID, chatID int64, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	s.freezeCurrentSession(userID)

	if err := s.stats.RecordSearch(userID, query, time.Now()); err != nil {
		logrus.Errorf("Failed to record search for user %d: %v", userID, err)
	}

	notice, err := s.presenter.Notify(chatID, "🔍 Ищу...")
	if err != nil {
		logrus.Warnf("Failed to send search notice: %v", err)
	}

	records, err := s.catalog.Search(ctx, query)
	if err != nil {
		logrus.Warnf("Catalog search failed for %q: %v", query, err)
		records = nil
	}

	if notice != nil {
		s.presenter.Delete(*notice)
	}

	if len(records) == 0 {
		_, err := s.presenter.Notify(chatID, fmt.Sprintf("😔 Ничего не найдено по запросу:\n<code>%s</code>", query))
		return err
	}

	session := domain.NewSearchSession(userID, chatID, query, records)
	if err := s.sessions.Start(session); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	return s.showCurrent(ctx, session)
}

// freezeCurrentSession down-grades the old session's record display to an
// action-less view before the session is discarded.
func (s *SearchService) freezeCurrentSession(userID int64) {
	old, err := s.sessions.Get(userID)
	if err != nil || old == nil {
		return
	}

	if old.ListView != nil {
		s.presenter.Delete(*old.ListView)
	}
	if old.ConfirmView != nil {
		s.presenter.Delete(*old.ConfirmView)
	}
	if old.PrimaryView != nil {
		if err := s.presenter.ShowFrozen(*old.PrimaryView, domain.BuildFrozenView(old)); err != nil {
			logrus.Warnf("Failed to freeze session view for user %d: %v", userID, err)
		}
	}

	if _, err := s.sessions.Clear(userID); err != nil {
		logrus.Errorf("Failed to clear session for user %d: %v", userID, err)
	}
}

// HandleAction func - Use case: apply a navigation action to the active session.
// Returns domain.ErrStaleSession when the user has none; the input adapter
// turns that into a user-visible notice.
func (s *SearchService) HandleAction(ctx context.Context, userID int64, action domain.NavAction) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.sessions.Get(userID)
	if err != nil {
		return err
	}
	if session == nil {
		return domain.ErrStaleSession
	}

	outcome, err := domain.Apply(ctx, session, action)
	if err != nil {
		logrus.Infof("Ignoring action %q in state %q for user %d", action, session.NavState, userID)
		return nil
	}

	switch outcome {
	case domain.OutcomeShowRecord:
		return s.showCurrent(ctx, session)

	case domain.OutcomeShowList:
		if session.ListView != nil {
			s.presenter.Delete(*session.ListView)
			session.ListView = nil
		}
		ref, err := s.presenter.ShowList(session.ChatID, domain.BuildListView(session, s.listCap))
		if err != nil {
			return fmt.Errorf("failed to show list: %w", err)
		}
		session.ListView = ref
		return nil

	case domain.OutcomeCloseList:
		if session.ListView != nil {
			s.presenter.Delete(*session.ListView)
			session.ListView = nil
		}
		return nil

	case domain.OutcomeConfirmed:
		if session.ListView != nil {
			s.presenter.Delete(*session.ListView)
			session.ListView = nil
		}
		if session.ConfirmView != nil {
			s.presenter.Delete(*session.ConfirmView)
			session.ConfirmView = nil
		}
		return s.showCurrent(ctx, session)

	case domain.OutcomeCloseConfirm:
		if session.ConfirmView != nil {
			s.presenter.Delete(*session.ConfirmView)
			session.ConfirmView = nil
		}
		return nil
	}

	return nil
}

// HandleSelection func - Use case: process text input while a number is expected.
// Non-numeric input and out-of-range numbers re-prompt without mutating state.
func (s *SearchService) HandleSelection(ctx context.Context, userID, chatID int64, text string) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.sessions.Get(userID)
	if err != nil {
		return err
	}
	if session == nil {
		_, err := s.presenter.Notify(chatID, "Поиск устарел. Сделай новый запрос.")
		return err
	}

	return s.applySelection(ctx, session, chatID, text)
}

// applySelection runs a numeric selection against the session. The caller
// must hold the user's lock.
func (s *SearchService) applySelection(ctx context.Context, session *domain.SearchSession, chatID int64, text string) error {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		_, err := s.presenter.Notify(chatID, "Пожалуйста, напиши только номер фильма из списка.")
		return err
	}

	outcome, err := domain.ApplySelect(ctx, session, n)
	if err != nil {
		logrus.Infof("Ignoring selection in state %q for user %d", session.NavState, session.UserID)
		return nil
	}

	switch outcome {
	case domain.OutcomeRepromptRange:
		_, err := s.presenter.Notify(chatID, fmt.Sprintf("Введите номер от 1 до %d", session.Len()))
		return err

	case domain.OutcomeShowConfirm:
		if session.ConfirmView != nil {
			s.presenter.Delete(*session.ConfirmView)
			session.ConfirmView = nil
		}
		ref, err := s.presenter.ShowConfirm(session.ChatID, domain.BuildConfirmView(session))
		if err != nil {
			return fmt.Errorf("failed to show confirmation: %w", err)
		}
		session.ConfirmView = ref
		return nil
	}

	return nil
}

// showCurrent renders the session's current record, lazily filling the
// external ratings exactly once per record and bumping the view counter.
func (s *SearchService) showCurrent(ctx context.Context, session *domain.SearchSession) error {
	record := session.Current()

	if _, ok := record.CachedRatings(); !ok {
		ratings, err := s.catalog.Ratings(ctx, record.WatchLink)
		if err != nil {
			logrus.Warnf("Rating lookup failed for %q: %v", record.Title, err)
			ratings = domain.PlaceholderRatings
		}
		record.FillRatings(ratings)
	}

	if err := s.stats.RecordView(session.UserID, record.FullTitle()); err != nil {
		logrus.Errorf("Failed to record view for user %d: %v", session.UserID, err)
	}

	ref, err := s.presenter.ShowRecord(session.ChatID, session.PrimaryView, domain.BuildRecordView(session))
	if err != nil {
		logrus.Errorf("Failed to render record for user %d: %v", session.UserID, err)
		return nil
	}
	session.PrimaryView = ref
	return nil
}

// HandleStart func - Use case: greet the user
func (s *SearchService) HandleStart(ctx context.Context, userID, chatID int64, firstName string) error {
	s.closeTransientViews(userID)

	greeting := "🎬 <b>Привет"
	if firstName != "" {
		greeting += ", " + firstName
	}
	greeting += "!</b>\n\n" +
		"Я бот для поиска фильмов на zona.plus\n\n" +
		"Просто напиши название фильма — покажу варианты с постерами, рейтингами и ссылками на просмотр.\n" +
		"Кнопки: ← Назад | Далее → | Все варианты | Смотреть онлайн"

	_, err := s.presenter.Notify(chatID, greeting)
	return err
}

// HandleHelp func - Use case: show usage instructions
func (s *SearchService) HandleHelp(ctx context.Context, userID, chatID int64) error {
	s.closeTransientViews(userID)

	_, err := s.presenter.Notify(chatID,
		"ℹ️ <b>Как я работаю:</b>\n\n"+
			"🔍 Просто напиши название фильма\n"+
			"◀️▶️ Листай кнопками «Назад» / «Далее»\n"+
			"📋 «Все варианты» — выбери номер из списка\n"+
			"🎬 «Смотреть онлайн» — сразу к просмотру\n\n"+
			"📊 <b>Команды:</b>\n"+
			"/history — последние запросы\n"+
			"/stats — твои самые просматриваемые фильмы\n"+
			"/clear_data — очистить всё\n\n"+
			"Приятного просмотра! 🍿")
	return err
}

// HandleHistory func - Use case: show the user's most recent search queries
func (s *SearchService) HandleHistory(ctx context.Context, userID, chatID int64) error {
	s.closeTransientViews(userID)

	entries, err := s.stats.History(userID, historyLimit)
	if err != nil {
		logrus.Errorf("Failed to load history for user %d: %v", userID, err)
		return err
	}

	if len(entries) == 0 {
		_, err := s.presenter.Notify(chatID, "📜 История запросов пуста.")
		return err
	}

	var b strings.Builder
	b.WriteString("🕒 <b>История поисков:</b>\n\n")
	for _, entry := range entries {
		fmt.Fprintf(&b, "🎬 <i>%s</i>\n   <code>%s</code>\n\n", entry.Query, entry.Timestamp.Format("02-01-2006 15:04:05"))
	}

	_, err = s.presenter.Notify(chatID, b.String())
	return err
}

// HandleStats func - Use case: show the user's most viewed films
func (s *SearchService) HandleStats(ctx context.Context, userID, chatID int64) error {
	s.closeTransientViews(userID)

	stats, err := s.stats.TopViews(userID, topViewsLimit)
	if err != nil {
		logrus.Errorf("Failed to load stats for user %d: %v", userID, err)
		return err
	}

	if len(stats) == 0 {
		_, err := s.presenter.Notify(chatID,
			"📊 Статистика пока пуста...\n\nНачните листать фильмы — я запомню ваши предпочтения! ✨")
		return err
	}

	var b strings.Builder
	b.WriteString("🔥 <b>Твои самые просматриваемые фильмы:</b>\n\n")
	for i, stat := range stats {
		medal := fmt.Sprintf("%d.", i+1)
		switch i {
		case 0:
			medal = "🥇"
		case 1:
			medal = "🥈"
		case 2:
			medal = "🥉"
		}
		fmt.Fprintf(&b, "%s <b>%s</b> — %d раз(а)\n", medal, stat.FilmTitle, stat.ShowCount)
	}

	_, err = s.presenter.Notify(chatID, b.String())
	return err
}

// HandleClearData func - Use case: wipe the user's stored history and counters
func (s *SearchService) HandleClearData(ctx context.Context, userID, chatID int64) error {
	s.closeTransientViews(userID)

	if err := s.stats.Clear(userID); err != nil {
		logrus.Errorf("Failed to clear data for user %d: %v", userID, err)
		return err
	}

	_, err := s.presenter.Notify(chatID, "Данные очищены: история и статистика удалены. 🗑️")
	return err
}

// closeTransientViews dismisses an open variant list or pending confirmation
// before a command response, so no dead interactive message stays behind
// after the state reset.
func (s *SearchService) closeTransientViews(userID int64) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.sessions.Get(userID)
	if err != nil || session == nil {
		return
	}
	if session.ListView != nil {
		s.presenter.Delete(*session.ListView)
		session.ListView = nil
	}
	if session.ConfirmView != nil {
		s.presenter.Delete(*session.ConfirmView)
		session.ConfirmView = nil
	}
	session.PendingChoice = 0
	session.NavState = domain.StateBrowsing
}
