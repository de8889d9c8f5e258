package jsdom

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	modulePath = "contentsearch"
	moduleRoot = "../../.."
	gopherjs   = "github.com/gopherjs/gopherjs"
)

// newerStd lists standard packages by the Go release that added them,
// from go1.21 on. GopherJS v1.N compiles against the go1.N library.
var newerStd = map[string]int{
	"log/slog":         21,
	"maps":             21,
	"slices":           21,
	"cmp":              21,
	"math/rand/v2":     22,
	"go/version":       22,
	"iter":             23,
	"unique":           23,
	"structs":          23,
	"weak":             24,
	"crypto/hkdf":      24,
	"crypto/mlkem":     24,
	"crypto/pbkdf2":    24,
	"crypto/sha3":      24,
	"testing/synctest": 25,
}

func gopherjsMinor(t *testing.T) int {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(moduleRoot, "go.mod"))
	require.NoError(t, err)
	m := regexp.MustCompile(`(?m)^\s*` + regexp.QuoteMeta(gopherjs) + `\s+v1\.(\d+)\.`).FindSubmatch(data)
	require.NotNil(t, m, "go.mod does not require %s", gopherjs)
	minor, err := strconv.Atoi(string(m[1]))
	require.NoError(t, err)
	return minor
}

// bundleImports returns every import reachable from the content script's
// non-test sources, keyed by the module package that imports it.
func bundleImports(t *testing.T) map[string]string {
	t.Helper()
	imports := make(map[string]string)
	seen := make(map[string]bool)
	var visit func(pkg string)
	visit = func(pkg string) {
		if seen[pkg] {
			return
		}
		seen[pkg] = true
		dir := filepath.Join(moduleRoot, strings.TrimPrefix(pkg, modulePath))
		files, err := filepath.Glob(filepath.Join(dir, "*.go"))
		require.NoError(t, err)
		require.NotEmpty(t, files, "no sources for %s", pkg)
		for _, f := range files {
			if strings.HasSuffix(f, "_test.go") {
				continue
			}
			af, err := parser.ParseFile(token.NewFileSet(), f, nil, parser.ImportsOnly)
			require.NoError(t, err)
			for _, spec := range af.Imports {
				path, _ := strconv.Unquote(spec.Path.Value)
				if path == modulePath || strings.HasPrefix(path, modulePath+"/") {
					visit(path)
					continue
				}
				imports[path] = pkg
			}
		}
	}
	visit(modulePath + "/cmd/contentscript")
	return imports
}

func TestBundleBuildsWithPinnedGopherJS(t *testing.T) {
	minor := gopherjsMinor(t)
	imports := bundleImports(t)
	require.Contains(t, imports, gopherjs+"/js")

	for path, from := range imports {
		if since, ok := newerStd[path]; ok {
			assert.LessOrEqual(t, since, minor, "%s imports %s (go1.%d) but gopherjs v1.%d ships go1.%d", from, path, since, minor, minor)
		}
	}
}

func TestBundleAvoidsNativeOnlyDeps(t *testing.T) {
	for path, from := range bundleImports(t) {
		first, _, _ := strings.Cut(path, "/")
		if !strings.Contains(first, ".") {
			continue
		}
		ok := strings.HasPrefix(path, gopherjs+"/") || path == "gopkg.in/yaml.v3"
		assert.True(t, ok, "%s pulls %s into the browser bundle", from, path)
	}
}
