package lineup

// PlayerID identifies one player; equality means the same real player.
type PlayerID = int64

// LineupSet is the unordered set of players on the court for one team.
// A lineup is complete only with exactly five members; intermediate
// states during a multi-player swap may transiently hold more or fewer.
type LineupSet map[PlayerID]struct{}

// NewLineupSet builds a set from player IDs.
func NewLineupSet(ids ...PlayerID) LineupSet {
	s := make(LineupSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Equal reports set equality, order irrelevant.
func (s LineupSet) Equal(other LineupSet) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if _, ok := other[id]; !ok {
			return false
		}
	}
	return true
}

// Complete reports whether the set holds exactly five players.
func (s LineupSet) Complete() bool {
	return len(s) == 5
}

// Clone returns an independent copy.
func (s LineupSet) Clone() LineupSet {
	out := make(LineupSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// SubKind is the direction of a substitution event.
type SubKind string

const (
	SubIn  SubKind = "in"
	SubOut SubKind = "out"
)

// SubstitutionEvent is one substitution from a game's action stream,
// carried in the stream's original (chronological) order.
type SubstitutionEvent struct {
	TeamID    int64
	Kind      SubKind
	PlayerID  PlayerID
	Clock     string
	Period    int
	HomeScore int
	AwayScore int
}

// Tracker maintains one team's on-court lineup across a game's
// substitution events. Set semantics absorb duplicate "in" events and
// "out" events for absent players as no-ops.
type Tracker struct {
	onCourt LineupSet
}

// NewTracker seeds a tracker with the starting five.
func NewTracker(starters []PlayerID) *Tracker {
	return &Tracker{onCourt: NewLineupSet(starters...)}
}

// Apply transitions the lineup for one substitution.
func (t *Tracker) Apply(kind SubKind, player PlayerID) {
	switch kind {
	case SubIn:
		t.onCourt[player] = struct{}{}
	case SubOut:
		delete(t.onCourt, player)
	}
}

// OnCourt returns the current lineup. The set is live; callers that need
// a stable snapshot must Clone it.
func (t *Tracker) OnCourt() LineupSet {
	return t.onCourt
}
