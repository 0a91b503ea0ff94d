package pipeline

import (
	"context"
	"fmt"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"io"
	"os"
	"path"
	"sort"
	"strings"
)

// DefaultExtensions lists pipeline definition file extensions
var DefaultExtensions = []string{".yaml", ".yml"}

// Discover walks a directory tree and loads every pipeline definition found under root.
// YAML files without steps are not pipelines and are skipped.
func Discover(ctx context.Context, root string, extensions ...string) ([]*Pipeline, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	fs := afs.New()
	var candidates []string
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() || isHidden(parent) {
			return true, nil
		}
		if hasExtension(info.Name(), extensions) {
			candidates = append(candidates, url.Join(baseURL, path.Join(parent, info.Name())))
		}
		return true, nil
	}
	if err := fs.Walk(ctx, root, visitor); err != nil {
		return nil, fmt.Errorf("failed to walk %v: %w", root, err)
	}
	sort.Strings(candidates)
	var result []*Pipeline
	for _, URL := range candidates {
		aPipeline, err := Load(ctx, URL)
		if err != nil {
			return nil, err
		}
		if len(aPipeline.Steps) == 0 {
			continue
		}
		result = append(result, aPipeline)
	}
	return result, nil
}

func isHidden(parent string) bool {
	for _, element := range strings.Split(parent, "/") {
		if strings.HasPrefix(element, ".") {
			return true
		}
	}
	return false
}

func hasExtension(name string, extensions []string) bool {
	ext := path.Ext(name)
	for _, candidate := range extensions {
		if strings.EqualFold(ext, candidate) {
			return true
		}
	}
	return false
}
