package protosrc

import (
	"context"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/bufbuild/protocompile"
	"github.com/pentops/log.go/log"
	glob "github.com/ryanuber/go-glob"
)

func NewFSResolver(fs fs.FS) protocompile.Resolver {
	return &protocompile.SourceResolver{
		Accessor: func(filename string) (io.ReadCloser, error) {
			return fs.Open(filename)
		},
	}
}

// FindProtoFiles lists the .proto files under root whose path or base name
// matches pattern. An empty pattern matches everything. Local copies of the
// builtin protos are skipped, the compiled-in versions are used instead.
func FindProtoFiles(root fs.FS, pattern string) ([]string, error) {
	filenames := []string{}
	err := fs.WalkDir(root, ".", func(filename string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if strings.ToLower(path.Ext(filename)) != ".proto" {
			return nil
		}
		if IsBuiltInProto(filename) {
			return nil
		}
		if pattern != "" && !glob.Glob(pattern, filename) && !glob.Glob(pattern, path.Base(filename)) {
			return nil
		}
		filenames = append(filenames, filename)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(filenames)
	return filenames, nil
}

// ReadFS compiles the matching .proto files found in root. Imports resolve
// against root first, then against dependencies, if given.
func ReadFS(ctx context.Context, root fs.FS, pattern string, dependencies protocompile.Resolver) (*Image, error) {
	filenames, err := FindProtoFiles(root, pattern)
	if err != nil {
		return nil, err
	}

	ctx = log.WithField(ctx, "pattern", pattern)
	log.WithField(ctx, "files", len(filenames)).Debug("found proto sources")

	var resolver protocompile.Resolver = NewFSResolver(root)
	if dependencies != nil {
		resolver = protocompile.CompositeResolver{
			resolver,
			dependencies,
		}
	}

	compiler := NewCompiler(resolver)
	files, err := compiler.Compile(ctx, filenames)
	if err != nil {
		return nil, err
	}

	return &Image{
		Filenames: filenames,
		Files:     files,
	}, nil
}
