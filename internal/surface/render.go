package surface

import (
	"strings"

	"git.home.luguber.info/inful/pkgbuilder/internal/declaration"
)

func header(marker string) string {
	return "// " + marker + "\n\n"
}

// renderModule returns the forwarding module text.
func renderModule(marker, requirePath string) string {
	return header(marker) + "module.exports = require('" + requirePath + "');"
}

// renderDeclaration returns the forwarding declaration text for shape. A
// declaration with no detected exports yields just the header.
func renderDeclaration(marker, requirePath string, shape declaration.ExportShape) string {
	var b strings.Builder
	b.WriteString(header(marker))
	if shape.HasDefault {
		b.WriteString("import def from '" + requirePath + "';\n\n")
		b.WriteString("export default def;\n")
	}
	if shape.HasNamed {
		b.WriteString("export * from '" + requirePath + "';\n")
	}
	return b.String()
}
