// events.go defines the event types for extension notifications.
//
// Separated from extension.go to isolate the event system. Events enable
// extensions to react to training activity without modifying core logic.
//
// Design: Events are fire-and-forget notifications, not approval requests.
// Extensions cannot block or veto operations via events - they observe
// after the fact. This keeps the core system simple and predictable.
// If approval workflows are needed, a separate hook system should be added.

package extension

// EventType identifies the kind of event.
type EventType string

const (
	EventExerciseGenerated EventType = "exercise:generate"
	EventReviewSubmitted   EventType = "review:submit"
	EventBadgeAwarded      EventType = "badge:award"
	EventUserRegistered    EventType = "user:register"
)

// Event is the base interface for all events.
type Event interface {
	EventType() EventType
	EventUser() string
}

// ExerciseGeneratedEvent is fired after a new exercise is persisted.
type ExerciseGeneratedEvent struct {
	Key        string
	UserID     string
	Domain     string
	Difficulty string
	Errors     int // planted error count
}

func (e ExerciseGeneratedEvent) EventType() EventType { return EventExerciseGenerated }
func (e ExerciseGeneratedEvent) EventUser() string    { return e.UserID }

// ReviewSubmittedEvent is fired after a review submission is graded and
// stored, whether or not it finished the exercise.
type ReviewSubmittedEvent struct {
	Key        string
	UserID     string
	Iteration  int
	Identified int
	Total      int
	Sufficient bool
	Finished   bool
}

func (e ReviewSubmittedEvent) EventType() EventType { return EventReviewSubmitted }
func (e ReviewSubmittedEvent) EventUser() string    { return e.UserID }

// BadgeAwardedEvent is fired once per badge newly earned by a review.
type BadgeAwardedEvent struct {
	UserID  string
	BadgeID string
	Name    string
	Points  int
}

func (e BadgeAwardedEvent) EventType() EventType { return EventBadgeAwarded }
func (e BadgeAwardedEvent) EventUser() string    { return e.UserID }

// UserRegisteredEvent is fired after a new account is created.
type UserRegisteredEvent struct {
	UID      string
	Username string
}

func (e UserRegisteredEvent) EventType() EventType { return EventUserRegistered }
func (e UserRegisteredEvent) EventUser() string    { return e.UID }

// EventHandler is implemented by extensions that want to receive events.
type EventHandler interface {
	HandleEvent(ctx Context, e Event) error
}
