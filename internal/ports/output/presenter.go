package output

import "cinemabot/internal/domain"

// Presenter interface - Output port
// Defines what the application needs from the conversational transport.
// Render failures are handled inside the adapter by the edit-first,
// delete-then-recreate fallback policy; deletion failures are swallowed.
type Presenter interface {
	// ShowRecord renders the primary record view. When current is non-nil the
	// displayed message is edited in place; on edit failure the adapter deletes
	// it best-effort and sends a fresh message. Returns the handle of whatever
	// message now shows the record.
	ShowRecord(chatID int64, current *domain.ViewRef, view domain.RecordView) (*domain.ViewRef, error)

	// ShowList renders the numbered variant list with a single close control
	ShowList(chatID int64, view domain.ListView) (*domain.ViewRef, error)

	// ShowConfirm renders a tentative selection with accept/reject controls
	ShowConfirm(chatID int64, view domain.ConfirmView) (*domain.ViewRef, error)

	// ShowFrozen strips a superseded session's record view down to the watch
	// link, editing in place; on failure the message is deleted best-effort.
	ShowFrozen(ref domain.ViewRef, view domain.FrozenView) error

	// Notify sends a plain text notice and returns its handle
	Notify(chatID int64, text string) (*domain.ViewRef, error)

	// Delete removes a rendered message best-effort; failures are logged and ignored
	Delete(ref domain.ViewRef)
}
