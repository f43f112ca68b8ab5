package units

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/qty/dimension"
	"github.com/arloliu/qty/errs"
	"github.com/arloliu/qty/internal/collision"
	"github.com/arloliu/qty/internal/hash"
	"github.com/arloliu/qty/internal/options"
)

// Registry resolves unit symbols and parses unit expressions.
//
// A Registry is immutable once NewRegistry returns and is safe for concurrent
// use. The optional parse cache is internally synchronized.
type Registry struct {
	symbols  map[string]*Definition
	defs     []*Definition
	prefixes []prefixEntry // longest text first
	cache    *parseCache
	logger   *zap.Logger
}

type prefixEntry struct {
	text      string
	canonical string
	value     float64
}

// RegistryOption configures a Registry.
type RegistryOption = options.Option[*Registry]

// NewRegistry creates a registry holding the built-in SI, imperial and
// temperature symbols plus whatever the options add.
func NewRegistry(opts ...RegistryOption) (*Registry, error) {
	r := &Registry{
		symbols: make(map[string]*Definition, len(builtinDefinitions)*4),
		logger:  zap.NewNop(),
	}

	for _, p := range siPrefixes {
		r.prefixes = append(r.prefixes, prefixEntry{text: p.Symbol, canonical: p.Symbol, value: p.Value})
		for _, a := range p.Aliases {
			r.prefixes = append(r.prefixes, prefixEntry{text: a, canonical: p.Symbol, value: p.Value})
		}
	}
	sort.SliceStable(r.prefixes, func(i, j int) bool {
		return len(r.prefixes[i].text) > len(r.prefixes[j].text)
	})

	for _, d := range builtinDefinitions {
		if err := r.define(d); err != nil {
			return nil, err
		}
	}

	if err := options.Apply(r, opts...); err != nil {
		return nil, err
	}

	return r, nil
}

// WithUnit adds a custom unit definition.
func WithUnit(def Definition) RegistryOption {
	return options.Named("WithUnit", func(r *Registry) error {
		if err := r.define(def); err != nil {
			return err
		}
		r.logger.Debug("unit defined", zap.String("symbol", def.Symbol), zap.Stringer("dimension", def.Dimension))

		return nil
	})
}

// WithDefinitions adds unit definitions from a YAML document:
//
//	units:
//	  - symbol: furlong
//	    aliases: [furlongs]
//	    definition: 201.168 m
//	  - symbol: degRe
//	    dimension: {temperature: 1}
//	    scale: 1.25
//	    offset: -218.52
//
// A definition is either an expression over already known symbols or an
// explicit dimension map with scale and optional offset.
func WithDefinitions(data []byte) RegistryOption {
	return options.Named("WithDefinitions", func(r *Registry) error {
		return r.loadDefinitions(data)
	})
}

// WithDefinitionFile is WithDefinitions reading from path.
func WithDefinitionFile(path string) RegistryOption {
	return options.Named("WithDefinitionFile", func(r *Registry) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		return r.loadDefinitions(data)
	})
}

// WithParseCache enables a bounded cache of parsed expressions keyed by their
// xxHash64. The cache is cleared when it reaches maxEntries.
func WithParseCache(maxEntries int) RegistryOption {
	return options.Named("WithParseCache", func(r *Registry) error {
		if maxEntries <= 0 {
			return fmt.Errorf("%w: cache size %d must be positive", errs.ErrInvalidDefinition, maxEntries)
		}
		r.cache = newParseCache(maxEntries)

		return nil
	})
}

// WithLogger sets the logger used for definition loading and cache events.
func WithLogger(logger *zap.Logger) RegistryOption {
	return options.NoError(func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	})
}

// Parse parses a unit expression. On failure it returns the empty sentinel
// and an error matching errs.ErrUnitsParse.
func (r *Registry) Parse(expr string) (Units, error) {
	if r.cache == nil {
		return r.parse(expr)
	}

	key := hash.ID(expr)
	if u, ok := r.cache.get(expr, key); ok {
		return u, nil
	}

	u, err := r.parse(expr)
	if err != nil {
		return u, err
	}
	if err := r.cache.put(expr, key, u); err != nil {
		r.logger.Debug("parse cache collision", zap.String("expr", expr), zap.Uint64("key", key))
	}

	return u, nil
}

// MustParse is Parse that panics on error. Intended for constant expressions.
func (r *Registry) MustParse(expr string) Units {
	u, err := r.Parse(expr)
	if err != nil {
		panic(err)
	}

	return u
}

// Lookup returns the definition registered under symbol or one of its aliases.
func (r *Registry) Lookup(symbol string) (Definition, bool) {
	d, ok := r.symbols[symbol]
	if !ok {
		return Definition{}, false
	}

	return *d, true
}

// Symbols returns the canonical symbols in definition order.
func (r *Registry) Symbols() []string {
	out := make([]string, len(r.defs))
	for i, d := range r.defs {
		out[i] = d.Symbol
	}

	return out
}

func (r *Registry) resolve(name string) (Term, error) {
	if d, ok := r.symbols[name]; ok {
		return newTerm(d, "", 1), nil
	}

	for _, p := range r.prefixes {
		if len(name) <= len(p.text) || !strings.HasPrefix(name, p.text) {
			continue
		}
		if d, ok := r.symbols[name[len(p.text):]]; ok && d.Prefixable {
			return newTerm(d, p.canonical, p.value), nil
		}
	}

	return Term{}, fmt.Errorf("unknown unit symbol %q", name)
}

func newTerm(d *Definition, prefix string, prefixValue float64) Term {
	return Term{
		Symbol:   d.Symbol,
		Prefix:   prefix,
		Exponent: 1,
		dim:      d.Dimension,
		mag:      prefixValue * d.Scale,
		offset:   d.Offset,
	}
}

func (r *Registry) define(d Definition) error {
	if err := validateDefinition(d); err != nil {
		return err
	}

	def := d
	def.Aliases = append([]string(nil), d.Aliases...)
	names := append([]string{def.Symbol}, def.Aliases...)
	for _, n := range names {
		if _, exists := r.symbols[n]; exists {
			return fmt.Errorf("%w: %q", errs.ErrDuplicateSymbol, n)
		}
	}
	for _, n := range names {
		r.symbols[n] = &def
	}
	r.defs = append(r.defs, &def)

	return nil
}

func validateDefinition(d Definition) error {
	if d.Symbol == "" {
		return fmt.Errorf("%w: empty symbol", errs.ErrInvalidDefinition)
	}
	for _, n := range append([]string{d.Symbol}, d.Aliases...) {
		if !isSymbol(n) {
			return fmt.Errorf("%w: %q", errs.ErrInvalidUnitsSymbol, n)
		}
	}
	if d.Scale <= 0 || math.IsInf(d.Scale, 0) || math.IsNaN(d.Scale) {
		return fmt.Errorf("%w: %q has scale %v", errs.ErrInvalidDefinition, d.Symbol, d.Scale)
	}
	if d.Offset != 0 && d.Prefixable {
		return fmt.Errorf("%w: offset unit %q cannot take prefixes", errs.ErrInvalidDefinition, d.Symbol)
	}

	return nil
}

func isSymbol(s string) bool {
	if s == "" || s == "n/a" {
		return false
	}
	for _, r := range s {
		if r == utf8.RuneError || !isSymbolRune(r) {
			return false
		}
	}

	return true
}

type definitionFile struct {
	Units []definitionEntry `yaml:"units"`
}

type definitionEntry struct {
	Symbol     string             `yaml:"symbol"`
	Aliases    []string           `yaml:"aliases"`
	Definition string             `yaml:"definition"`
	Dimension  map[string]float64 `yaml:"dimension"`
	Scale      float64            `yaml:"scale"`
	Offset     float64            `yaml:"offset"`
	Prefixable bool               `yaml:"prefixable"`
}

func (r *Registry) loadDefinitions(data []byte) error {
	var file definitionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrInvalidDefinition, err)
	}

	for _, e := range file.Units {
		def, err := r.entryDefinition(e)
		if err != nil {
			return err
		}
		if err := r.define(def); err != nil {
			return err
		}
		r.logger.Debug("unit loaded",
			zap.String("symbol", def.Symbol),
			zap.Stringer("dimension", def.Dimension),
			zap.Float64("scale", def.Scale),
		)
	}

	return nil
}

func (r *Registry) entryDefinition(e definitionEntry) (Definition, error) {
	def := Definition{
		Symbol:     e.Symbol,
		Aliases:    e.Aliases,
		Offset:     e.Offset,
		Prefixable: e.Prefixable,
	}

	if e.Definition != "" {
		if len(e.Dimension) > 0 {
			return Definition{}, fmt.Errorf("%w: %q sets both definition and dimension", errs.ErrInvalidDefinition, e.Symbol)
		}
		u, err := r.parse(e.Definition)
		if err != nil {
			return Definition{}, fmt.Errorf("%w: %q: %w", errs.ErrInvalidDefinition, e.Symbol, err)
		}
		if u.IsAffine() {
			return Definition{}, fmt.Errorf("%w: %q is defined over an offset unit", errs.ErrInvalidDefinition, e.Symbol)
		}
		def.Dimension = u.Dimension()
		def.Scale = u.Scale()

		return def, nil
	}

	for name, exp := range e.Dimension {
		b, ok := dimension.ParseBase(name)
		if !ok {
			return Definition{}, fmt.Errorf("%w: %q has unknown base dimension %q", errs.ErrInvalidDefinition, e.Symbol, name)
		}
		def.Dimension[b] = exp
	}
	def.Scale = e.Scale
	if def.Scale == 0 {
		def.Scale = 1
	}

	return def, nil
}

type parseCache struct {
	mu         sync.RWMutex
	entries    map[uint64]Units
	tracker    *collision.Tracker
	maxEntries int
}

func newParseCache(maxEntries int) *parseCache {
	return &parseCache{
		entries:    make(map[uint64]Units, maxEntries),
		tracker:    collision.NewTracker(),
		maxEntries: maxEntries,
	}
}

func (c *parseCache) get(expr string, key uint64) (Units, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if owner, ok := c.tracker.Owner(key); !ok || owner != expr {
		return Units{}, false
	}
	u, ok := c.entries[key]

	return u, ok
}

func (c *parseCache) put(expr string, key uint64, u Units) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tracker.Count() >= c.maxEntries {
		c.tracker.Reset()
		clear(c.entries)
	}
	if err := c.tracker.Track(expr, key); err != nil {
		return err
	}
	c.entries[key] = u

	return nil
}

func (c *parseCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

var defaultRegistry = func() *Registry {
	r, err := NewRegistry()
	if err != nil {
		panic(err)
	}

	return r
}()

// Default returns the shared built-in registry.
func Default() *Registry {
	return defaultRegistry
}

// Parse parses expr with the default registry.
func Parse(expr string) (Units, error) {
	return defaultRegistry.Parse(expr)
}

// MustParse parses expr with the default registry and panics on error.
func MustParse(expr string) Units {
	return defaultRegistry.MustParse(expr)
}

// Radians returns the "rad" units.
func Radians() Units {
	return radians
}

// Degrees returns the "deg" units.
func Degrees() Units {
	return degrees
}

var (
	radians = MustParse("rad")
	degrees = MustParse("deg")
)
