package mdp

import (
	"math"

	"github.com/kbukum/mdpsolve/errors"
)

// validate classifies every node and fills its transition probabilities.
//
//   - terminal nodes must not declare a probability;
//   - nodes with edges but no probability become decision nodes with rate 1;
//   - decision nodes need a rate in (0, 1] and start with all-zero Probs;
//   - chance nodes need one probability per edge summing to 1 within eps.
func (g *Graph) validate(eps float64) error {
	for _, name := range g.order {
		n := g.nodes[name]

		if n.IsTerminal() {
			if n.declared != nil {
				return errors.InvalidTerminal(name)
			}
			continue
		}

		if n.declared == nil {
			n.Decision = true
			n.SuccessRate = 1.0
		}

		if n.Decision {
			if !(n.SuccessRate > 0 && n.SuccessRate <= 1) {
				return errors.InvalidDistribution(name, n.Edges, n.declared, "success rate must be in (0, 1]")
			}
			for _, e := range n.Edges {
				n.Probs[e] = 0
			}
			continue
		}

		if len(n.Edges) != len(n.declared) {
			return errors.CardinalityMismatch(name, n.Edges, n.declared)
		}
		var sum float64
		for _, p := range n.declared {
			if !(p >= 0 && p <= 1) {
				return errors.InvalidDistribution(name, n.Edges, n.declared, "probabilities must be in [0, 1]")
			}
			sum += p
		}
		if math.Abs(sum-1.0) > eps {
			return errors.InvalidDistribution(name, n.Edges, n.declared, "sum of probabilities is not 1.0")
		}
		for i, e := range n.Edges {
			n.Probs[e] = n.declared[i]
		}
	}
	return nil
}
