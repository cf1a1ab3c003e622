package concept

// State is a step of one concept run. Every run starts and ends in Idle:
//
//	Idle → Validating → Generating → Writing → Idle   created
//	Idle → Validating → Idle                          rejected
//	Idle → Validating → Generating → Idle             generation failed
//
// A file-creation failure leaves from Writing.
type State int

const (
	Idle State = iota
	Validating
	Generating
	Writing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Generating:
		return "generating"
	case Writing:
		return "writing"
	default:
		return "unknown"
	}
}

// Kind classifies how a run ended.
type Kind int

const (
	Created Kind = iota
	EmptySelection
	InvalidFileName
	GenerationFailed
	FileCreationFailed
)

func (k Kind) String() string {
	switch k {
	case Created:
		return "created"
	case EmptySelection:
		return "empty-selection"
	case InvalidFileName:
		return "invalid-file-name"
	case GenerationFailed:
		return "generation-failed"
	case FileCreationFailed:
		return "file-creation-failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of one run, for Go callers. The user sees notices.
type Outcome struct {
	Kind  Kind
	Title string // sanitized title; empty when rejected before sanitizing
	Path  string // vault-relative note path
	RunID string // ledger id, empty for rejected runs
	Err   error  // nil only for Created
}
