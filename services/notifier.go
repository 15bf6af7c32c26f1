package services

// Notifier pushes review decisions to connected clients. Satisfied by
// *notify.Hub; tests substitute a recording fake.
type Notifier interface {
	Publish(userID int, eventType string, payload interface{})
	PublishAdmin(eventType string, payload interface{})
}

// noopNotifier is used when no hub is wired (tests, one-off tools).
type noopNotifier struct{}

func (noopNotifier) Publish(int, string, interface{}) {}
func (noopNotifier) PublishAdmin(string, interface{}) {}

// NopNotifier returns a Notifier that drops every event.
func NopNotifier() Notifier { return noopNotifier{} }
