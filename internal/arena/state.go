package arena

// state is the single mutable match snapshot, owned by one Engine. It carries
// no synchronization of its own: a match instance must be driven by exactly
// one logical executor at a time.
type state struct {
	phase         Phase
	teams         map[TeamID]*TeamState
	questionIndex int
	current       *Question
	total         int
	winner        TeamID
	events        *EventLog
}

// newState builds a fresh match state from a question list.
func newState(questions []Question, eventCapacity int) *state {
	s := &state{
		phase: PhaseIdle,
		teams: map[TeamID]*TeamState{
			TeamLeft:  {},
			TeamRight: {},
		},
		total:  len(questions),
		events: NewEventLog(eventCapacity),
	}
	if len(questions) > 0 {
		q := questions[0]
		s.current = &q
		s.phase = PhaseQuestion
	}
	return s
}

// snapshot produces a defensive copy for themes and observers.
func (s *state) snapshot() Snapshot {
	teams := make(map[TeamID]TeamState, len(s.teams))
	for id, ts := range s.teams {
		teams[id] = *ts
	}
	var current *Question
	if s.current != nil {
		q := *s.current
		current = &q
	}
	return Snapshot{
		Phase:           s.phase,
		Teams:           teams,
		QuestionIndex:   s.questionIndex,
		CurrentQuestion: current,
		TotalQuestions:  s.total,
		Winner:          s.winner,
		Events:          s.events.Events(),
	}
}

// applyDeltas mutates one team's score, advantage and streak, honoring the
// score floor and the [0,100] advantage clamp.
func (s *state) applyDeltas(team TeamID, result ScoreResult, advantageDelta int) {
	ts := s.teams[team]

	score := ts.Score + result.ScoreDelta
	if score < 0 {
		score = 0
	}
	ts.Score = score

	adv := ts.Advantage + float64(advantageDelta)
	if adv < 0 {
		adv = 0
	}
	if adv > 100 {
		adv = 100
	}
	ts.Advantage = adv

	if result.Correct {
		ts.Streak++
	} else {
		ts.Streak = 0
	}
}
