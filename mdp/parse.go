package mdp

import (
	"bufio"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/kbukum/mdpsolve/errors"
)

const (
	commentMarker   = "#"
	valueDelim      = "="
	probDelim       = "%"
	edgeDelim       = ":"
	maxLineBytes    = 1 << 20
	initialLineSize = 64 * 1024
)

// BuildOption configures graph construction.
type BuildOption func(*buildConfig)

type buildConfig struct {
	epsilon float64
}

// WithProbabilityEpsilon sets how far a chance distribution may sum from 1.0.
// Zero demands exact equality.
func WithProbabilityEpsilon(eps float64) BuildOption {
	return func(c *buildConfig) { c.epsilon = eps }
}

// Parse reads a graph description, builds every node and validates the
// result. Any failure is fatal and no graph is returned.
func Parse(r io.Reader, opts ...BuildOption) (*Graph, error) {
	cfg := buildConfig{epsilon: DefaultProbabilityEpsilon}
	for _, opt := range opts {
		opt(&cfg)
	}

	g := newGraph()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, initialLineSize), maxLineBytes)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		if err := g.parseLine(lineNo, sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		if stderrors.Is(err, bufio.ErrTooLong) {
			return nil, errors.MalformedRecord(lineNo+1, "", "line exceeds maximum length").WithCause(err)
		}
		return nil, errors.Internal(err)
	}

	if err := g.validate(cfg.epsilon); err != nil {
		return nil, err
	}
	return g, nil
}

// ParseString is Parse over an in-memory description.
func ParseString(s string, opts ...BuildOption) (*Graph, error) {
	return Parse(strings.NewReader(s), opts...)
}

// ParseFile opens path and parses it.
func ParseFile(path string, opts ...BuildOption) (*Graph, error) {
	f, err := openGraph(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, opts...)
}

func openGraph(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NotFound("graph file", path).WithCause(err)
		}
		return nil, errors.Internal(err).WithDetail("path", path)
	}
	return f, nil
}

// parseLine dispatches one input line on its delimiter. The checks run in
// a fixed order so a line containing several delimiters is read as the
// first kind that matches.
func (g *Graph) parseLine(lineNo int, raw string) error {
	line := strings.TrimSpace(raw)
	if line == "" || strings.Contains(line, commentMarker) {
		return nil
	}

	switch {
	case strings.Contains(line, valueDelim):
		return g.parseValue(lineNo, line)
	case strings.Contains(line, probDelim):
		return g.parseProbabilities(lineNo, line)
	case strings.Contains(line, edgeDelim):
		return g.parseEdges(lineNo, line)
	default:
		return errors.MalformedRecord(lineNo, line, "no record delimiter")
	}
}

// splitRecord splits "name <delim> payload" at the first delimiter.
func splitRecord(lineNo int, line, delim string) (string, string, error) {
	name, payload, _ := strings.Cut(line, delim)
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", errors.MalformedRecord(lineNo, line, "missing node name")
	}
	return name, strings.TrimSpace(payload), nil
}

func (g *Graph) parseValue(lineNo int, line string) error {
	name, payload, err := splitRecord(lineNo, line, valueDelim)
	if err != nil {
		return err
	}
	reward, err := strconv.Atoi(payload)
	if err != nil {
		return errors.MalformedRecord(lineNo, line, "reward must be an integer").WithCause(err)
	}
	g.node(name).Reward = float64(reward)
	return nil
}

func (g *Graph) parseProbabilities(lineNo int, line string) error {
	name, payload, err := splitRecord(lineNo, line, probDelim)
	if err != nil {
		return err
	}
	fields := strings.Fields(payload)
	if len(fields) == 0 {
		return errors.MalformedRecord(lineNo, line, "missing probabilities")
	}
	probs := make([]float64, len(fields))
	for i, f := range fields {
		p, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return errors.MalformedRecord(lineNo, line, "probability "+strconv.Quote(f)+" is not a number").WithCause(err)
		}
		probs[i] = p
	}

	// The latest declaration wins, so a node never carries both forms.
	n := g.node(name)
	n.declared = probs
	if len(probs) == 1 {
		n.Decision = true
		n.SuccessRate = probs[0]
	} else {
		n.Decision = false
		n.SuccessRate = 0
	}
	return nil
}

func (g *Graph) parseEdges(lineNo int, line string) error {
	name, payload, err := splitRecord(lineNo, line, edgeDelim)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(payload, "[") || !strings.HasSuffix(payload, "]") {
		return errors.MalformedRecord(lineNo, line, "edge list must be enclosed in brackets")
	}
	inner := strings.TrimSpace(payload[1 : len(payload)-1])

	var edges []string
	if inner != "" {
		seen := make(map[string]bool)
		for _, part := range strings.Split(inner, ",") {
			target := strings.TrimSpace(part)
			if target == "" {
				return errors.MalformedRecord(lineNo, line, "empty edge name")
			}
			if seen[target] {
				return errors.MalformedRecord(lineNo, line, "duplicate edge "+strconv.Quote(target))
			}
			seen[target] = true
			edges = append(edges, target)
		}
	}

	g.node(name).Edges = edges
	for _, target := range edges {
		g.node(target)
	}
	return nil
}
