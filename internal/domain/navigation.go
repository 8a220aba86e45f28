package domain

import (
	"context"
	"errors"

	"github.com/looplab/fsm"
)

// NavState represents the navigation state of a search session
type NavState string

const (
	// StateBrowsing - one record shown with prev/next/list controls
	StateBrowsing NavState = "browsing"
	// StateAwaitingNumber - the variant list is visible and a numeric selection is expected
	StateAwaitingNumber NavState = "awaiting_number"
	// StateConfirmingChoice - a tentative selection is shown with accept/reject controls
	StateConfirmingChoice NavState = "confirming_choice"
)

// NavAction represents a navigation action issued by the user
type NavAction string

const (
	// ActionPrev - step to the previous record
	ActionPrev NavAction = "prev"
	// ActionNext - step to the next record
	ActionNext NavAction = "next"
	// ActionOpenList - open the numbered list of all variants
	ActionOpenList NavAction = "list"
	// ActionCloseList - dismiss the variant list
	ActionCloseList NavAction = "close_list"
	// ActionConfirm - accept the tentative selection
	ActionConfirm NavAction = "yes"
	// ActionReject - reject the tentative selection and pick another number
	ActionReject NavAction = "no"
)

const actionSelect = "select"

// ListThreshold is the minimum result count beyond which the list control appears
const ListThreshold = 3

// Outcome describes what the caller must render after a transition
type Outcome string

const (
	// OutcomeNone - a guard rejected the action, nothing changed
	OutcomeNone Outcome = "none"
	// OutcomeShowRecord - re-render the primary record view
	OutcomeShowRecord Outcome = "show_record"
	// OutcomeShowList - render the variant list view
	OutcomeShowList Outcome = "show_list"
	// OutcomeCloseList - discard the variant list view
	OutcomeCloseList Outcome = "close_list"
	// OutcomeShowConfirm - render the tentative selection with accept/reject
	OutcomeShowConfirm Outcome = "show_confirm"
	// OutcomeConfirmed - selection accepted, discard list and tentative views, re-render record
	OutcomeConfirmed Outcome = "confirmed"
	// OutcomeCloseConfirm - selection rejected, discard the tentative view, list stays
	OutcomeCloseConfirm Outcome = "close_confirm"
	// OutcomeRepromptRange - selection out of range, re-prompt without mutation
	OutcomeRepromptRange Outcome = "reprompt_range"
)

// navFSM builds the transition machine seeded with the session's current state.
// The state itself stays on the session so it remains a plain serializable field.
func navFSM(s *SearchSession) *fsm.FSM {
	return fsm.NewFSM(
		string(s.NavState),
		fsm.Events{
			{Name: string(ActionPrev), Src: []string{string(StateBrowsing)}, Dst: string(StateBrowsing)},
			{Name: string(ActionNext), Src: []string{string(StateBrowsing)}, Dst: string(StateBrowsing)},
			{Name: string(ActionOpenList), Src: []string{string(StateBrowsing)}, Dst: string(StateAwaitingNumber)},
			{Name: string(ActionCloseList), Src: []string{string(StateAwaitingNumber)}, Dst: string(StateBrowsing)},
			{Name: actionSelect, Src: []string{string(StateAwaitingNumber)}, Dst: string(StateConfirmingChoice)},
			{Name: string(ActionConfirm), Src: []string{string(StateConfirmingChoice)}, Dst: string(StateBrowsing)},
			{Name: string(ActionReject), Src: []string{string(StateConfirmingChoice)}, Dst: string(StateAwaitingNumber)},
		},
		fsm.Callbacks{
			"before_" + string(ActionPrev): func(_ context.Context, e *fsm.Event) {
				if s.CurrentIndex <= 0 {
					e.Cancel()
				}
			},
			"before_" + string(ActionNext): func(_ context.Context, e *fsm.Event) {
				if s.CurrentIndex >= s.Len()-1 {
					e.Cancel()
				}
			},
			"before_" + string(ActionOpenList): func(_ context.Context, e *fsm.Event) {
				if s.Len() <= ListThreshold {
					e.Cancel()
				}
			},
			"before_" + actionSelect: func(_ context.Context, e *fsm.Event) {
				if n, ok := e.Args[0].(int); ok && (n < 1 || n > s.Len()) {
					e.Cancel()
				}
			},
		},
	)
}

// Apply runs one navigation action through the state machine and mutates the
// session accordingly. A guard rejection yields OutcomeNone with no mutation;
// an action that is not legal in the current state yields ErrInvalidTransition.
func Apply(ctx context.Context, s *SearchSession, action NavAction) (Outcome, error) {
	f := navFSM(s)
	if err := f.Event(ctx, string(action)); err != nil {
		var canceled fsm.CanceledError
		if errors.As(err, &canceled) {
			return OutcomeNone, nil
		}
		return OutcomeNone, ErrInvalidTransition
	}
	s.NavState = NavState(f.Current())

	switch action {
	case ActionPrev:
		s.CurrentIndex--
		return OutcomeShowRecord, nil
	case ActionNext:
		s.CurrentIndex++
		return OutcomeShowRecord, nil
	case ActionOpenList:
		return OutcomeShowList, nil
	case ActionCloseList:
		return OutcomeCloseList, nil
	case ActionConfirm:
		s.CurrentIndex = s.PendingChoice
		return OutcomeConfirmed, nil
	case ActionReject:
		return OutcomeCloseConfirm, nil
	}
	return OutcomeNone, nil
}

// ApplySelect runs a numeric selection through the state machine. The state
// check comes first: a selection outside StateAwaitingNumber yields
// ErrInvalidTransition, then a number outside [1, len(records)] re-prompts
// and leaves the session untouched.
func ApplySelect(ctx context.Context, s *SearchSession, n int) (Outcome, error) {
	f := navFSM(s)
	if err := f.Event(ctx, actionSelect, n); err != nil {
		var canceled fsm.CanceledError
		if errors.As(err, &canceled) {
			return OutcomeRepromptRange, nil
		}
		return OutcomeNone, ErrInvalidTransition
	}
	s.NavState = NavState(f.Current())
	s.PendingChoice = n - 1
	return OutcomeShowConfirm, nil
}
