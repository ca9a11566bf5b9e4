package radial

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/keywheel/pkg/related"
	"github.com/matzehuels/keywheel/pkg/theory"
)

// Branch is one key in the topology tree.
type Branch struct {
	Key          theory.Key
	Generation   int
	Angle        float64 // degrees; 0 for the root
	TargetRadius float64
	Children     []*Branch

	// Truncated is set when the resolver failed to expand this key.
	Truncated bool

	parent *Branch
}

// Parent returns the branch this one was expanded from, or nil for the root.
func (b *Branch) Parent() *Branch { return b.parent }

// Failure records a key whose related set could not be computed.
type Failure struct {
	Key        theory.Key
	Generation int
	Err        error
}

// Topology is the tick-independent shape of a radial key tree.
// It is immutable once built.
type Topology struct {
	Root     *Branch
	Config   Config
	Failures []Failure

	levels [Generations + 1][]*Branch
}

// Option configures BuildTopology.
type Option func(*options)

type options struct {
	resolver related.Resolver
	logger   *log.Logger
}

// WithResolver replaces the related-key resolver. Mostly useful in tests.
func WithResolver(r related.Resolver) Option {
	return func(o *options) {
		if r != nil {
			o.resolver = r
		}
	}
}

// WithLogger sets the logger that receives expansion failures.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		resolver: related.Default,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// BuildTopology expands root through [Generations] levels of related keys.
//
// Each level is expanded completely before the next one is filtered, so the
// dedup set for generation d holds every spelling from generations 0..d-1.
// Surviving children of a node are spread over cfg.Slices[d-1] degrees
// starting at the node's own angle. A node whose children were all filtered
// out is a leaf.
//
// cfg is not rejected when [Config.Validate] fails: the tree shape does not
// depend on the geometry, so the topology is still built and the problem is
// logged at warn level. Callers that need a usable frame validate first.
func BuildTopology(root theory.Key, cfg Config, opts ...Option) *Topology {
	o := newOptions(opts)
	if err := cfg.Validate(); err != nil {
		o.logger.Warn("invalid geometry", "root", root.Spelling(), "err", err)
	}

	t := &Topology{
		Root:   &Branch{Key: root},
		Config: cfg,
	}
	t.levels[0] = []*Branch{t.Root}

	seen := map[string]bool{root.Spelling(): true}
	for gen := 1; gen <= Generations; gen++ {
		var next []*Branch
		for _, parent := range t.levels[gen-1] {
			next = append(next, t.expand(parent, gen, seen, o)...)
		}
		for _, b := range next {
			seen[b.Key.Spelling()] = true
		}
		t.levels[gen] = next
	}
	return t
}

// expand attaches the unseen related keys of parent as generation gen.
func (t *Topology) expand(parent *Branch, gen int, seen map[string]bool, o options) []*Branch {
	keys, err := o.resolver.Related(parent.Key)
	if err != nil {
		parent.Truncated = true
		t.Failures = append(t.Failures, Failure{Key: parent.Key, Generation: parent.Generation, Err: err})
		o.logger.Warn("key failed to expand", "key", parent.Key.Spelling(), "generation", parent.Generation, "err", err)
		return nil
	}

	kept := make([]theory.Key, 0, len(keys))
	for _, k := range keys {
		if !seen[k.Spelling()] {
			kept = append(kept, k)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	slice := t.Config.Slices[gen-1]
	children := make([]*Branch, len(kept))
	for j, k := range kept {
		children[j] = &Branch{
			Key:          k,
			Generation:   gen,
			Angle:        parent.Angle + slice*float64(j)/float64(len(kept)),
			TargetRadius: t.Config.Radius(gen),
			parent:       parent,
		}
	}
	parent.Children = children
	return children
}

// Generation returns the branches at generation g in expansion order.
func (t *Topology) Generation(g int) []*Branch {
	if g < 0 || g > Generations {
		return nil
	}
	return t.levels[g]
}

// Keys returns the keys at generation g in expansion order.
func (t *Topology) Keys(g int) []theory.Key {
	branches := t.Generation(g)
	keys := make([]theory.Key, len(branches))
	for i, b := range branches {
		keys[i] = b.Key
	}
	return keys
}

// Stats summarizes a topology.
type Stats struct {
	PerGeneration [Generations + 1]int
	Total         int
	Truncated     int
}

// Stats counts nodes per generation.
func (t *Topology) Stats() Stats {
	var s Stats
	for g, level := range t.levels {
		s.PerGeneration[g] = len(level)
		s.Total += len(level)
	}
	s.Truncated = len(t.Failures)
	return s
}

// Walk visits every branch in pre-order: a node before its children, and
// children in angular order.
func (t *Topology) Walk(fn func(*Branch)) {
	var visit func(*Branch)
	visit = func(b *Branch) {
		fn(b)
		for _, c := range b.Children {
			visit(c)
		}
	}
	visit(t.Root)
}
