package surface

import (
	"path/filepath"
	"regexp"
	"strings"
)

var moduleExt = regexp.MustCompile(`\.jsx?$`)

// RequirePath returns the import specifier a forwarding module at
// publicFilename uses to reach modulePath: relative, extensionless,
// slash-separated and always starting with "./" or "../".
func RequirePath(publicFilename, modulePath string) (string, error) {
	rel, err := filepath.Rel(filepath.Dir(publicFilename), modulePath)
	if err != nil {
		return "", err
	}
	rel = moduleExt.ReplaceAllString(filepath.ToSlash(rel), "")
	if !strings.HasPrefix(rel, "./") && !strings.HasPrefix(rel, "../") {
		rel = "./" + rel
	}
	return rel, nil
}

// normalizeExt maps a dual-extension module name to its single-extension
// counterpart (.jsx to .js).
func normalizeExt(path string) string {
	if strings.HasSuffix(path, ".jsx") {
		return strings.TrimSuffix(path, "x")
	}
	return path
}

func declarationPath(path string) string {
	return moduleExt.ReplaceAllString(path, ".d.ts")
}
