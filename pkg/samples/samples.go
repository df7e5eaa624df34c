// Package samples bundles small demonstration programs.
package samples

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"pel/interpreter-go/pkg/source"
)

//go:embed programs/*.pel
var programs embed.FS

const ext = ".pel"

// Names lists the bundled programs without their extension.
func Names() []string {
	entries, err := fs.ReadDir(programs, "programs")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ext))
	}
	sort.Strings(names)
	return names
}

// Load returns the named program as a source file called "<name>.pel".
func Load(name string) (*source.File, error) {
	file := strings.TrimSuffix(name, ext) + ext
	data, err := programs.ReadFile(path.Join("programs", file))
	if err != nil {
		return nil, fmt.Errorf("unknown sample %q (have %s)", name, strings.Join(Names(), ", "))
	}
	return source.NewFile(file, string(data)), nil
}
