package driver

// Stage is the pipeline step a file is in.
type Stage uint8

const (
	StageQueued Stage = iota
	StageLoad
	StageScan
	StageParse
	StageLint
)

func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "loading"
	case StageScan:
		return "scanning"
	case StageParse:
		return "parsing"
	case StageLint:
		return "linting"
	default:
		return "queued"
	}
}

// Status is the state of a file within its stage.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

// Event is a progress notification. File is empty for batch-level events.
type Event struct {
	File   string
	Stage  Stage
	Status Status
}

// emit never blocks the pipeline on a nil channel.
func emit(ch chan<- Event, ev Event) {
	if ch == nil {
		return
	}
	ch <- ev
}
