// Package compiler is the pipeline driver: it runs the fixed pass order
// C3 -> C4 -> C5 -> C4 -> C6 -> C7 -> C8 -> C4, stopping the moment any
// pass reports an error (§2's data-flow line, §5's "pass execution order
// is fixed"). C4 (ID resolution) runs three times because C5 (unit scope
// building) and C6 (transform rewriting) each introduce new names/types
// that the next things to run may reference.
//
// Grounded on the teacher's inspector.Factory.InspectProject (a fixed
// sequence of stages run over one shared project value, §ambient-stack
// data-flow), generalized from "one static sequence of inspectors" to
// "one static sequence of compiler passes", each taking and mutating the
// same *ir.Module.
package compiler

import (
	"github.com/sirupsen/logrus"

	"github.com/viant/diffingo/compact"
	"github.com/viant/diffingo/depanalysis"
	"github.com/viant/diffingo/diag"
	"github.com/viant/diffingo/ir"
	"github.com/viant/diffingo/resolve"
	"github.com/viant/diffingo/scopebuild"
	"github.com/viant/diffingo/unitscope"
	"github.com/viant/diffingo/xform"
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger attaches a logger used by every pass that accepts one.
func WithLogger(log logrus.FieldLogger) Option {
	return func(p *Pipeline) { p.log = log }
}

// WithReportUnresolved forwards to resolve.WithReportUnresolved for the
// final C4 run; the first two runs always defer unresolved names.
func WithReportUnresolved(v bool) Option {
	return func(p *Pipeline) { p.reportUnresolved = v }
}

// Pipeline runs the fixed compiler pass sequence over one module.
type Pipeline struct {
	log              logrus.FieldLogger
	reportUnresolved bool
}

// New creates a Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{log: logrus.StandardLogger(), reportUnresolved: true}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run executes C3 through C8 over m, returning the first diagnostic list
// holding an error produced by any pass. A nil return means every pass
// ran clean and m now carries resolved types, dependency lists (C7), and
// compacted units (C8, on every DeclUnitInstantiation's CompactedUnits).
func (p *Pipeline) Run(m *ir.Module) *diag.List {
	scopebuild.New(scopebuild.WithLogger(p.log)).Build(m)

	if d := p.resolve(m, false); d.HasErrors() {
		return d
	}

	unitscope.New(unitscope.WithLogger(p.log)).Build(m)

	if d := p.resolve(m, false); d.HasErrors() {
		return d
	}

	xform.New(xform.WithLogger(p.log)).Run(m)

	d := depanalysis.New(depanalysis.WithLogger(p.log)).Run(m)
	if d.HasErrors() {
		return d
	}

	compact.New(compact.WithLogger(p.log)).Run(m)

	if d := p.resolve(m, true); d.HasErrors() {
		return d
	}

	return nil
}

func (p *Pipeline) resolve(m *ir.Module, final bool) *diag.List {
	return resolve.New(
		resolve.WithLogger(p.log),
		resolve.WithReportUnresolved(final && p.reportUnresolved),
	).Run(m)
}
