package session

import (
	"github.com/spigell/resume-screener/internal/screener"
)

// Kind names the UI state a session is in.
type Kind string

const (
	KindIdle    Kind = "idle"
	KindLoading Kind = "loading"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// State is a snapshot of the session's UI state. Exactly one kind is active.
// Results is set only for KindSuccess and Message only for KindError.
type State struct {
	Kind         Kind
	SubmissionID string
	Results      []screener.Candidate
	Message      string
}

func (s State) IsLoading() bool { return s.Kind == KindLoading }

func idle() State {
	return State{Kind: KindIdle}
}

func loading(id string) State {
	return State{Kind: KindLoading, SubmissionID: id}
}

func success(id string, candidates []screener.Candidate) State {
	return State{Kind: KindSuccess, SubmissionID: id, Results: candidates}
}

func failure(id, message string) State {
	return State{Kind: KindError, SubmissionID: id, Message: message}
}
