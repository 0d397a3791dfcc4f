package model

// FlowNode is one question projected into the logic-map graph
type FlowNode struct {
	ID      string       `json:"id"`
	Label   string       `json:"label"`
	Type    QuestionType `json:"type"`
	Options []string     `json:"options,omitempty"`
}

// FlowEdge is one rule-driven transition between questions. For rule edges
// the edge id is the owning rule's id, which is what makes edge deletion an
// exact inverse of rule creation. Fallback edges carry the owning question's
// default destination.
type FlowEdge struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Label    string `json:"label"`
	Fallback bool   `json:"fallback,omitempty"`
}

// FlowGraph is the logic-map projection of a form's question list
type FlowGraph struct {
	Nodes []FlowNode `json:"nodes"`
	Edges []FlowEdge `json:"edges"`
}
