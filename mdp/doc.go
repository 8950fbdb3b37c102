// Package mdp models a finite Markov Decision Process as a graph of named
// states and solves it with policy iteration.
//
// A graph is described in a line-oriented text format:
//
//	A = 0
//	A : [B, C]
//	A % 0.8
//	D : [B, C]
//	D % 0.3 0.7
//
// "A = 0" sets a reward, "A : [B, C]" lists ordered edges, "A % 0.8" makes A
// a decision node whose intended edge fires with probability 0.8, and
// "D % 0.3 0.7" gives chance node D a fixed distribution. Any line that
// contains "#" is a comment and is skipped whole.
//
// Parse builds and validates the graph in one step; build errors are fatal
// and carry an errors.ErrorCode identifying their kind. Graph.Solve then
// alternates synchronous value iteration with greedy policy improvement
// until the policy stops changing.
//
// A Graph is owned by exactly one solve at a time and does no locking.
package mdp
