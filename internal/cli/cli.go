package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/pentops/log.go/log"
	"github.com/pentops/protomodel/internal/protosrc"
	"github.com/pentops/runner/commander"
)

var Version = ""

var Commit = func() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}
	return "dev"
}()

func CommandSet() *commander.CommandSet {

	cmdGroup := commander.NewCommandSet()
	cmdGroup.Add("version", commander.NewCommand(runVersion))

	cmdGroup.Add("generate", commander.NewCommand(runGenerate))
	cmdGroup.Add("order", commander.NewCommand(runOrder))

	return cmdGroup
}

func runVersion(ctx context.Context, cfg struct{}) error {
	fmt.Printf("protomodel version %v (%v)\n", Version, Commit)
	return nil
}

type SourceConfig struct {
	Source  string `flag:"dir" default:"." description:"Source directory containing .proto files, also the import root"`
	Include string `flag:"include" default:"*.proto" description:"Glob matched against each source path or file name"`
}

func (cfg SourceConfig) GetImage(ctx context.Context) (*protosrc.Image, error) {
	ctx = log.WithField(ctx, "dir", cfg.Source)
	img, err := protosrc.ReadFS(ctx, os.DirFS(cfg.Source), cfg.Include, nil)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", cfg.Source, err)
	}
	if len(img.Files) == 0 {
		return nil, fmt.Errorf("no files matching %q in %s", cfg.Include, cfg.Source)
	}
	return img, nil
}

type fileWriter struct {
	dir string
}

func (f *fileWriter) PutFile(ctx context.Context, filename string, data []byte) error {
	fullPath := filepath.Join(f.dir, filename)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("mkdirall for %s: %w", fullPath, err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return fmt.Errorf("writefile for %s: %w", fullPath, err)
	}
	return nil
}

type stdoutWriter struct{}

func (stdoutWriter) PutFile(ctx context.Context, filename string, data []byte) error {
	fmt.Printf("# %s\n", filename)
	_, err := os.Stdout.Write(data)
	return err
}
