package models

type MusicianStatus string
type ProjectStatus string
type NeedStatus string
type NeedStrategy string
type RequestStatus string
type ListKind string

const (
	MusicianStatusActive   MusicianStatus = "active"
	MusicianStatusInactive MusicianStatus = "inactive"
	MusicianStatusArchived MusicianStatus = "archived"

	ProjectStatusActive   ProjectStatus = "active"
	ProjectStatusArchived ProjectStatus = "archived"

	NeedStatusActive    NeedStatus = "active"
	NeedStatusPaused    NeedStatus = "paused"
	NeedStatusCompleted NeedStatus = "completed"

	NeedStrategySequential NeedStrategy = "sequential"
	NeedStrategyParallel   NeedStrategy = "parallel"
	NeedStrategyFirstCome  NeedStrategy = "first_come"

	RequestStatusPending   RequestStatus = "pending"
	RequestStatusAccepted  RequestStatus = "accepted"
	RequestStatusDeclined  RequestStatus = "declined"
	RequestStatusTimedOut  RequestStatus = "timed_out"
	RequestStatusCancelled RequestStatus = "cancelled"

	ListKindStandard ListKind = "standard"
	ListKindProject  ListKind = "project"
)

// IsTerminal reports whether a request status permits no further transitions.
// Every status except pending is terminal, which is what makes re-running the
// timeout pass safe.
func (s RequestStatus) IsTerminal() bool {
	return s != RequestStatusPending
}
