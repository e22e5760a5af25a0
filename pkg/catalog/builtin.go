package catalog

import (
	"embed"
	"io/fs"
	"sync"
)

//go:embed builtin
var builtinFS embed.FS

var (
	builtinOnce sync.Once
	builtin     *Catalog
	builtinErr  error
)

// Builtin returns the embedded template catalog. The embedded files are part
// of the build, so a parse failure here is a packaging bug surfaced to the
// first caller.
func Builtin() (*Catalog, error) {
	builtinOnce.Do(func() {
		sub, err := fs.Sub(builtinFS, "builtin")
		if err != nil {
			builtinErr = err
			return
		}
		builtin, builtinErr = LoadFS(sub)
	})
	return builtin, builtinErr
}
