// Package typegen generates Lua annotation declarations from a prototype API
// document.
//
// # Architecture
//
// Generation runs in two layers:
//  1. Language-agnostic emission: the Translator turns IDL type expressions
//     into decl types, and three independent passes (concepts, prototypes,
//     registry) turn the schema Index into decl.Sections.
//  2. Language-specific rendering: a Generator (see typegen/lua) formats each
//     section as a self-contained file.
//
// # Design Decisions
//
//   - Naming of struct bodies (plain vs. suffixed) is decided by the
//     Translator alone; emitters ask it for names instead of re-deriving them.
//   - Emission order equals document order. The description Formatter is
//     called in that order too, one call at a time per pass.
//   - There is no partial success: any pass failing fails the whole run.
package typegen

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/protolua/errors"
	"github.com/teranos/protolua/logger"
	"github.com/teranos/protolua/schema"
	"github.com/teranos/protolua/typegen/decl"
)

// Section names, in the order they appear in a Result
const (
	SectionConcepts   = "concepts"
	SectionPrototypes = "prototypes"
	SectionRegistry   = "registry"
)

// Options controls naming in the generated declarations.
type Options struct {
	// NamespacePrefix is prepended to every concept and prototype name
	NamespacePrefix string
	// StructSuffix marks the struct body of a concept that also owns an alias
	StructSuffix string
	// BasePrototype is the prototype every extend() entry must derive from
	BasePrototype string
	// RegistryName is the registry class and its bound global
	RegistryName string
}

// DefaultOptions returns the naming used by the LuaLS definitions.
func DefaultOptions() Options {
	return Options{
		NamespacePrefix: "data.",
		StructSuffix:    ".struct",
		BasePrototype:   "PrototypeBase",
		RegistryName:    "data",
	}
}

// Generate runs the three emission passes over idx. Passes run concurrently;
// each one calls f sequentially in document order. The first failure cancels
// the others and no Result is returned.
func Generate(ctx context.Context, idx *schema.Index, f Formatter, opts Options) (*Result, error) {
	if f == nil {
		f = Identity
	}

	runID := uuid.NewString()
	log := logger.Named("typegen").With(logger.FieldRunID, runID)
	start := time.Now()

	tr := NewTranslator(idx, opts)
	em := &emitter{idx: idx, tr: tr, format: f, opts: opts}

	passes := []struct {
		name string
		run  func(context.Context) ([]decl.Decl, error)
	}{
		{SectionConcepts, em.concepts},
		{SectionPrototypes, em.prototypes},
		{SectionRegistry, em.registry},
	}

	sections := make([]*decl.Section, len(passes))
	g, gctx := errgroup.WithContext(ctx)
	for i, pass := range passes {
		g.Go(func() error {
			decls, err := pass.run(gctx)
			if err != nil {
				return errors.Wrapf(err, "failed to emit %s", pass.name)
			}
			sections[i] = &decl.Section{Name: pass.name, Decls: decls}
			log.Infow("Emitted section",
				logger.FieldSection, pass.name,
				logger.FieldCount, len(decls))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Errorw("Generation failed", logger.FieldError, err)
		return nil, err
	}

	log.Debugw("Generation complete",
		logger.FieldDurationMS, time.Since(start).Milliseconds())

	return &Result{
		Application:        idx.Application(),
		ApplicationVersion: idx.ApplicationVersion(),
		Sections:           sections,
	}, nil
}
