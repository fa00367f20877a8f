package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/pentops/log.go/log"
	"github.com/pentops/protomodel/internal/protosrc"
	"github.com/pentops/protomodel/internal/render/pydantic"
	"github.com/pentops/protomodel/internal/schema"
	"github.com/pentops/protomodel/internal/translate"
	"golang.org/x/sync/errgroup"
	"google.golang.org/protobuf/reflect/protoreflect"
)

type Dest interface {
	PutFile(ctx context.Context, filename string, data []byte) error
}

type generateConfig struct {
	SourceConfig
	Output     string `flag:"output" default:"-" description:"Output directory, - for stdout"`
	BaseClass  string `flag:"base-class" default:"BaseModel" description:"Class every generated model extends"`
	BaseModule string `flag:"base-module" default:"pydantic" description:"Python module the base class is imported from"`
}

func runGenerate(ctx context.Context, cfg generateConfig) error {
	img, err := cfg.GetImage(ctx)
	if err != nil {
		return err
	}

	var dest Dest = stdoutWriter{}
	if cfg.Output != "-" {
		dest = &fileWriter{dir: cfg.Output}
	}

	options := pydantic.Options{
		BaseClass:  cfg.BaseClass,
		BaseModule: cfg.BaseModule,
	}
	return generate(ctx, img, options, dest)
}

func generate(ctx context.Context, img *protosrc.Image, options pydantic.Options, dest Dest) error {
	modules, err := packageModules(img)
	if err != nil {
		return err
	}

	translated, err := translateModules(ctx, modules)
	if err != nil {
		return err
	}

	for _, pkg := range translated {
		filename := pydantic.ModuleFilename(pkg.Module.Name)
		data := pydantic.Render(pkg.Declarations, options)
		log.WithFields(ctx, map[string]interface{}{
			"package":  pkg.Module.Name,
			"filename": filename,
			"messages": len(pkg.Declarations),
		}).Info("Generated Models")
		if err := dest.PutFile(ctx, filename, data); err != nil {
			return err
		}
	}
	return nil
}

type orderConfig struct {
	SourceConfig
}

func runOrder(ctx context.Context, cfg orderConfig) error {
	img, err := cfg.GetImage(ctx)
	if err != nil {
		return err
	}

	modules, err := packageModules(img)
	if err != nil {
		return err
	}

	translated, err := translateModules(ctx, modules)
	if err != nil {
		return err
	}

	for _, pkg := range translated {
		names := make([]string, len(pkg.Declarations))
		for i, decl := range pkg.Declarations {
			names[i] = decl.Name
		}
		fmt.Printf("%s: %s\n", displayPackage(pkg.Module.Name), strings.Join(names, ", "))
	}
	return nil
}

func displayPackage(name string) string {
	if name == "" {
		return "(no package)"
	}
	return name
}

// packageModules groups the image's files into one module per proto
// package, in order of first appearance.
func packageModules(img *protosrc.Image) ([]*schema.Module, error) {
	byPackage := map[string][]protoreflect.FileDescriptor{}
	packages := []string{}
	for _, file := range img.Files {
		pkg := string(file.Package())
		if _, ok := byPackage[pkg]; !ok {
			packages = append(packages, pkg)
		}
		byPackage[pkg] = append(byPackage[pkg], file)
	}

	modules := make([]*schema.Module, 0, len(packages))
	for _, pkg := range packages {
		mod, err := schema.FromFiles(pkg, byPackage[pkg]...)
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", displayPackage(pkg), err)
		}
		modules = append(modules, mod)
	}
	return modules, nil
}

type translatedModule struct {
	Module       *schema.Module
	Declarations []*translate.Declaration
}

// translateModules runs each module's translation concurrently. Modules
// share no state.
func translateModules(ctx context.Context, modules []*schema.Module) ([]*translatedModule, error) {
	results := make([]*translatedModule, len(modules))

	errGroup, ctx := errgroup.WithContext(ctx)
	for idx, mod := range modules {
		idx, mod := idx, mod
		errGroup.Go(func() error {
			ctx := log.WithField(ctx, "package", displayPackage(mod.Name))
			decls, err := translate.Translate(mod)
			if err != nil {
				log.WithError(ctx, err).Error("Translation Failed")
				return fmt.Errorf("package %s: %w", displayPackage(mod.Name), err)
			}
			log.WithField(ctx, "messages", len(decls)).Debug("Translated")
			results[idx] = &translatedModule{
				Module:       mod,
				Declarations: decls,
			}
			return nil
		})
	}

	if err := errGroup.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
