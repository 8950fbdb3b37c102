package mdp

// Node is one MDP state.
//
// Reward, Decision, SuccessRate and Edges are fixed once the graph is built.
// Probs is fixed for chance nodes and recomputed by Redistribute for decision
// nodes on every policy-iteration sweep.
type Node struct {
	Name        string
	Reward      float64
	Decision    bool
	SuccessRate float64
	Edges       []string
	Probs       map[string]float64

	// declared holds the raw probability record, nil if none was given.
	declared []float64
}

func newNode(name string) *Node {
	return &Node{Name: name, Probs: make(map[string]float64)}
}

// IsTerminal reports whether the node has no outgoing edges.
func (n *Node) IsTerminal() bool { return len(n.Edges) == 0 }

// IsChance reports whether the node has a fixed transition distribution.
func (n *Node) IsChance() bool { return !n.Decision && !n.IsTerminal() }

// Redistribute sets Probs for a decision node whose policy picks chosen:
// chosen receives SuccessRate and the remaining edges split the failure
// probability evenly.
func (n *Node) Redistribute(chosen string) {
	others := len(n.Edges) - 1
	var fail float64
	if others > 0 {
		fail = (1 - n.SuccessRate) / float64(others)
	}
	for _, e := range n.Edges {
		if e == chosen {
			n.Probs[e] = n.SuccessRate
		} else {
			n.Probs[e] = fail
		}
	}
}

// expectedValue is the value of intending candidate under the
// redistribution rule, given values for every successor.
func (n *Node) expectedValue(candidate string, values Values) float64 {
	q := n.SuccessRate * values[candidate]
	others := len(n.Edges) - 1
	if others == 0 {
		return q
	}
	fail := (1 - n.SuccessRate) / float64(others)
	for _, e := range n.Edges {
		if e != candidate {
			q += fail * values[e]
		}
	}
	return q
}

// backup computes reward + discount * sum(prob * value) over the node's edges.
func (n *Node) backup(discount float64, values Values) float64 {
	var sum float64
	for _, e := range n.Edges {
		sum += n.Probs[e] * values[e]
	}
	return n.Reward + discount*sum
}
