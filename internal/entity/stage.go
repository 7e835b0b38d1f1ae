package entity

// StageGroup is a derived board column. It is rebuilt from the snapshot on
// every read and never stored.
type StageGroup struct {
	Title  string `json:"title"`
	Status Status `json:"status"`
	Count  int    `json:"count"`
	Color  string `json:"color"`
	Leads  []Lead `json:"leads"`
}

var stageColors = map[Status]string{
	StatusNew:       "#3b82f6",
	StatusContacted: "#f59e0b",
	StatusQualified: "#8b5cf6",
	StatusConverted: "#10b981",
	StatusClosed:    "#6b7280",
}

// StageColor returns the display color of a stage column.
func StageColor(s Status) string {
	return stageColors[s]
}

// TransitionPolicy decides whether a lead may move between two stages.
// A nil policy, or one with no terminal stages, allows any move.
type TransitionPolicy struct {
	terminal map[Status]bool
}

func NewTransitionPolicy(terminal ...Status) *TransitionPolicy {
	p := &TransitionPolicy{terminal: make(map[Status]bool)}
	for _, s := range terminal {
		p.terminal[s] = true
	}
	return p
}

func (p *TransitionPolicy) CanTransition(from, to Status) bool {
	if !to.IsStage() {
		return false
	}
	if p == nil || from == "" {
		return true
	}
	return !p.terminal[from]
}

// Terminal lists the stages that leads cannot leave, in pipeline order.
func (p *TransitionPolicy) Terminal() []Status {
	if p == nil {
		return nil
	}
	var out []Status
	for _, s := range Stages {
		if p.terminal[s] {
			out = append(out, s)
		}
	}
	return out
}
