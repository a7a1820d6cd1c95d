package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/henderiw/rangetree/pkg/rangeset"
	"github.com/henderiw/rangetree/pkg/tree"
	"gopkg.in/yaml.v3"
)

var errUnknownSet = errors.New("unknown set")

// Config is the on-disk configuration. Sets are referenced on the command
// line as @name.
type Config struct {
	Domain string            `yaml:"domain"`
	Sets   map[string]string `yaml:"sets"`
}

func loadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// resolver turns operands into sets over a single domain.
type resolver struct {
	domain tree.Range
	named  map[string]*rangeset.Set
}

func newResolver(cfg *Config, domainFlag string) (*resolver, error) {
	domain := rangeset.CodePointDomain
	text := cfg.Domain
	if domainFlag != "" {
		text = domainFlag
	}
	if text != "" {
		d, err := tree.ParseRange(text)
		if err != nil {
			return nil, fmt.Errorf("domain: %w", err)
		}
		domain = d
	}

	r := &resolver{domain: domain, named: map[string]*rangeset.Set{}}
	var errm error
	for name, text := range cfg.Sets {
		s, err := rangeset.Parse(domain, text)
		if err != nil {
			errm = errors.Join(errm, fmt.Errorf("set %q: %w", name, err))
			continue
		}
		r.named[name] = s
	}
	if errm != nil {
		return nil, errm
	}
	return r, nil
}

func (r *resolver) resolve(operand string) (*rangeset.Set, error) {
	name, ok := strings.CutPrefix(operand, "@")
	if !ok {
		return rangeset.Parse(r.domain, operand)
	}
	if s, ok := r.named[name]; ok {
		return s, nil
	}
	if s, ok := r.builtin(name); ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s", errUnknownSet, operand)
}

func (r *resolver) resolveAll(operands []string) ([]*rangeset.Set, error) {
	sets := make([]*rangeset.Set, 0, len(operands))
	for _, o := range operands {
		s, err := r.resolve(o)
		if err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	return sets, nil
}

func (r *resolver) builtin(name string) (*rangeset.Set, bool) {
	if r.domain == rangeset.CodePointDomain {
		switch name {
		case "empty":
			return rangeset.Empty(), true
		case "all":
			return rangeset.CodePoints(), true
		case "ascii":
			return rangeset.ASCII(), true
		}
		return nil, false
	}
	switch name {
	case "empty":
		return rangeset.New(r.domain), true
	case "all":
		return rangeset.New(r.domain).Invert(), true
	case "ascii":
		b := rangeset.NewBuilder(r.domain, rangeset.WithClamp())
		b.AddRange(tree.RangeFrom(rangeset.MinCodePoint, rangeset.MaxASCII))
		s, _ := b.Set()
		return s, true
	}
	return nil, false
}
