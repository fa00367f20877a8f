package protosrc

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/bufbuild/protocompile"
	"google.golang.org/protobuf/reflect/protoregistry"

	// Linked in so their descriptors are in the global registry.
	_ "buf.build/gen/go/bufbuild/protovalidate/protocolbuffers/go/buf/validate"
	_ "google.golang.org/genproto/googleapis/api/annotations"
	_ "google.golang.org/genproto/googleapis/api/httpbody"
	_ "google.golang.org/protobuf/types/known/anypb"
	_ "google.golang.org/protobuf/types/known/durationpb"
	_ "google.golang.org/protobuf/types/known/emptypb"
	_ "google.golang.org/protobuf/types/known/fieldmaskpb"
	_ "google.golang.org/protobuf/types/known/structpb"
	_ "google.golang.org/protobuf/types/known/timestamppb"
	_ "google.golang.org/protobuf/types/known/wrapperspb"
)

var builtinPrefixes = []string{
	"google/protobuf/",
	"google/api/",
	"buf/validate/",
}

// IsBuiltInProto reports whether filename is served from the compiled-in
// descriptors rather than from source.
func IsBuiltInProto(filename string) bool {
	for _, prefix := range builtinPrefixes {
		if strings.HasPrefix(filename, prefix) {
			return true
		}
	}
	return false
}

// RegistryResolver resolves builtin proto paths against a descriptor
// registry. Other paths are reported as not found so a composite resolver
// moves on to the sources.
type RegistryResolver struct {
	Files *protoregistry.Files

	cache sync.Map // filename -> protocompile.SearchResult
}

// BuiltinResolver serves the well-known, google.api and buf.validate protos
// linked into the binary.
var BuiltinResolver = &RegistryResolver{
	Files: protoregistry.GlobalFiles,
}

func (rr *RegistryResolver) FindFileByPath(filename string) (protocompile.SearchResult, error) {
	if !IsBuiltInProto(filename) {
		return protocompile.SearchResult{}, os.ErrNotExist
	}
	if cached, ok := rr.cache.Load(filename); ok {
		return cached.(protocompile.SearchResult), nil
	}
	desc, err := rr.Files.FindFileByPath(filename)
	if err != nil {
		return protocompile.SearchResult{}, fmt.Errorf("builtin %s: %w", filename, err)
	}
	result := protocompile.SearchResult{Desc: desc}
	rr.cache.Store(filename, result)
	return result, nil
}
