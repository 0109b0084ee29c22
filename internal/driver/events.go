package driver

// Stage is the step a file is in.
type Stage uint8

const (
	StageRead Stage = iota + 1
	StageFormat
	StageWrite
)

func (s Stage) String() string {
	switch s {
	case StageRead:
		return "reading"
	case StageFormat:
		return "formatting"
	case StageWrite:
		return "writing"
	default:
		return ""
	}
}

// Status is the state of a file within its stage.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusUnchanged
	StatusError
)

// Event reports progress of one file; File is "" for run-wide events.
type Event struct {
	File   string
	Stage  Stage
	Status Status
}

func emit(events chan<- Event, ev Event) {
	if events != nil {
		events <- ev
	}
}
