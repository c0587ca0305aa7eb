package session

// GameSessionName is the well-known name the client hosts and joins under.
// It is shared with the provider's session namespace.
const GameSessionName = "GameSession"

// LANSubsystemName is the provider backend name that implies LAN play.
const LANSubsystemName = "NULL"

// BuildID is the build compatibility id advertised and searched for.
const BuildID = 1

// SettingMatchType is the advertised settings key holding the match type tag.
const SettingMatchType = "MatchType"

// Kind identifies one of the five session operations.
type Kind int

const (
	KindCreate Kind = iota
	KindFind
	KindJoin
	KindDestroy
	KindStart
)

// Kinds lists every operation kind in declaration order.
var Kinds = []Kind{KindCreate, KindFind, KindJoin, KindDestroy, KindStart}

var kindNames = map[Kind]string{
	KindCreate:  "create",
	KindFind:    "find",
	KindJoin:    "join",
	KindDestroy: "destroy",
	KindStart:   "start",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// JoinOutcome classifies a join attempt. It is passed through from the
// provider verbatim.
type JoinOutcome int

const (
	JoinSuccess JoinOutcome = iota
	JoinSessionIsFull
	JoinSessionDoesNotExist
	JoinCouldNotRetrieveAddress
	JoinAlreadyInSession
	JoinUnknownError
)

var outcomeNames = map[JoinOutcome]string{
	JoinSuccess:                 "success",
	JoinSessionIsFull:           "session_is_full",
	JoinSessionDoesNotExist:     "session_does_not_exist",
	JoinCouldNotRetrieveAddress: "could_not_retrieve_address",
	JoinAlreadyInSession:        "already_in_session",
	JoinUnknownError:            "unknown_error",
}

func (o JoinOutcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return "unknown_error"
}

// UserID identifies the local player issuing an operation.
type UserID string

// Config describes the session to host. A new create overwrites the
// previous one.
type Config struct {
	NumPublicConnections  int
	IsLANMatch            bool
	AllowJoinInProgress   bool
	AllowJoinViaPresence  bool
	ShouldAdvertise       bool
	UsesPresence          bool
	UseLobbiesIfAvailable bool
	// BuildUniqueID keeps incompatible builds from seeing each other.
	BuildUniqueID int
	Settings      map[string]string
}

// MatchType returns the advertised match type tag.
func (c Config) MatchType() string {
	return c.Settings[SettingMatchType]
}

func newConfig(numPublicConnections int, matchType string, lan bool) Config {
	return Config{
		NumPublicConnections:  numPublicConnections,
		IsLANMatch:            lan,
		AllowJoinInProgress:   true,
		AllowJoinViaPresence:  true,
		ShouldAdvertise:       true,
		UsesPresence:          true,
		UseLobbiesIfAvailable: true,
		BuildUniqueID:         BuildID,
		Settings:              map[string]string{SettingMatchType: matchType},
	}
}

// SearchQuery is built fresh for every find. The provider fills Results
// before reporting completion.
type SearchQuery struct {
	MaxResults     int
	IsLANQuery     bool
	PresenceFilter bool
	// BuildUniqueID restricts results to sessions advertised with the same id.
	BuildUniqueID int
	Results       []SearchResult
}

// SearchResult is one session advertised by the provider. The orchestrator
// never mutates it.
type SearchResult struct {
	SessionID             string
	OwningUserName        string
	Settings              map[string]string
	OpenPublicConnections int
	PingMs                int
}

// MatchType returns the advertised match type tag, or "" if absent.
func (r SearchResult) MatchType() string {
	return r.Settings[SettingMatchType]
}

// NamedSession is the provider's view of a locally registered session.
type NamedSession struct {
	Name      string
	SessionID string
	Config    Config
	Started   bool
}

// Intent records the create parameters captured when a create has to wait
// for the existing session to be destroyed.
type Intent struct {
	NumPublicConnections int
	MatchType            string
}

// FindResult is the payload of the find notification. Success is false for
// an empty result set as well as for a failed search.
type FindResult struct {
	Results []SearchResult
	Success bool
}
