// Package protosrc compiles .proto sources into descriptors.
package protosrc

import (
	"context"
	"errors"
	"fmt"

	"github.com/bufbuild/protocompile"
	"github.com/bufbuild/protocompile/reporter"
	"github.com/pentops/bcl.go/bcl/errpos"
	"github.com/pentops/log.go/log"
	"google.golang.org/protobuf/reflect/protoreflect"
)

type Compiler struct {
	Resolver protocompile.Resolver
}

func NewCompiler(resolver protocompile.Resolver) *Compiler {
	return &Compiler{
		Resolver: protocompile.CompositeResolver{
			BuiltinResolver,
			resolver,
		},
	}
}

// Compile returns one descriptor per requested file, in the same order.
// Imports are linked but not returned.
func (cc *Compiler) Compile(ctx context.Context, filenames []string) ([]protoreflect.FileDescriptor, error) {
	errs := func(err reporter.ErrorWithPos) error {
		log.WithError(ctx, err).Error("Compiler Error")
		pos := err.GetPosition()
		return errpos.AddPosition(err.Unwrap(), errpos.Position{
			Filename: &pos.Filename,
			Start: errpos.Point{
				Line:   pos.Line - 1,
				Column: pos.Col - 1,
			},
		})
	}

	warnings := func(err reporter.ErrorWithPos) {
		log.WithError(ctx, err).Warn("Compiler Warning")
	}

	pcCompiler := protocompile.Compiler{
		Resolver:       cc.Resolver,
		SourceInfoMode: protocompile.SourceInfoStandard,
		Reporter:       reporter.NewReporter(errs, warnings),
	}

	results, err := pcCompiler.Compile(ctx, filenames...)
	if err != nil {
		panicErr := protocompile.PanicError{}
		if errors.As(err, &panicErr) {
			log.WithField(ctx, "stack", panicErr.Stack).Error("Compiler Panic")
		}
		return nil, fmt.Errorf("compiling %d files: %w", len(filenames), err)
	}

	files := make([]protoreflect.FileDescriptor, len(results))
	for i, result := range results {
		files[i] = result
	}
	return files, nil
}

// Image is a compiled set of source files.
type Image struct {
	Filenames []string
	Files     []protoreflect.FileDescriptor
}
