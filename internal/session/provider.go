package session

// Handle is the registration token returned when subscribing to a
// provider's completion signal. The zero value is never issued.
type Handle uint64

// Completion is what a provider reports when an async operation finishes.
// Success is meaningful for create, find, destroy and start; Outcome for join.
type Completion struct {
	Kind        Kind
	SessionName string
	Success     bool
	Outcome     JoinOutcome
}

// Provider is the engine-side session backend the orchestrator drives.
// Every operation returns false when it cannot even start; otherwise its
// completion is later delivered to the handlers registered for that kind.
type Provider interface {
	// SubsystemName reports the active backend, "NULL" for LAN.
	SubsystemName() string

	CreateSession(user UserID, sessionName string, cfg Config) bool
	// FindSessions fills q.Results before signalling completion.
	FindSessions(user UserID, q *SearchQuery) bool
	JoinSession(user UserID, sessionName string, result SearchResult) bool
	DestroySession(sessionName string) bool
	StartSession(sessionName string) bool

	NamedSession(sessionName string) (NamedSession, bool)
	ResolvedConnectString(sessionName string) (string, bool)

	AddCompletionHandler(kind Kind, fn func(Completion)) Handle
	ClearCompletionHandler(kind Kind, h Handle)
}
