package pipeline

import "fmt"

// Stage is where a run currently is.
type Stage int

const (
	Idle Stage = iota
	Parsing
	StaticAnalysis
	Benchmarking
	Judgment
	Explanation
	Suggestion
	Complete
	Error
)

var stageNames = [...]string{
	Idle:           "IDLE",
	Parsing:        "PARSING",
	StaticAnalysis: "STATIC_ANALYSIS",
	Benchmarking:   "BENCHMARKING",
	Judgment:       "JUDGMENT",
	Explanation:    "EXPLANATION",
	Suggestion:     "SUGGESTION",
	Complete:       "COMPLETE",
	Error:          "ERROR",
}

func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Stage) UnmarshalText(b []byte) error {
	for i, name := range stageNames {
		if name == string(b) {
			*s = Stage(i)
			return nil
		}
	}
	return fmt.Errorf("unknown stage %q", string(b))
}

// Node is one inspectable step of the workflow graph.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Stage Stage  `json:"stage"`
}

var Nodes = []Node{
	{ID: "parse", Label: "Parse", Stage: Parsing},
	{ID: "static", Label: "Static Analysis", Stage: StaticAnalysis},
	{ID: "runtime", Label: "Runtime Benchmark", Stage: Benchmarking},
	{ID: "judge", Label: "Judgment", Stage: Judgment},
	{ID: "explain", Label: "Explain", Stage: Explanation},
	{ID: "suggest", Label: "Suggest", Stage: Suggestion},
}

// NodeIndex returns the position of id in Nodes, or -1.
func NodeIndex(id string) int {
	for i, n := range Nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// NodeForStage returns the node whose stage is s.
func NodeForStage(s Stage) (Node, bool) {
	for _, n := range Nodes {
		if n.Stage == s {
			return n, true
		}
	}
	return Node{}, false
}

func stageIndex(s Stage) int {
	for i, n := range Nodes {
		if n.Stage == s {
			return i
		}
	}
	return -1
}

// CanSelect reports whether node id may be inspected while the run is at
// current: any node once the run is complete, otherwise only nodes already
// reached.
func CanSelect(id string, current Stage) bool {
	idx := NodeIndex(id)
	if idx < 0 {
		return false
	}
	if current == Complete {
		return true
	}
	return idx <= stageIndex(current)
}
