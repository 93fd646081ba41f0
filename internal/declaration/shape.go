// Package declaration inspects type-declaration text to find out which kinds
// of exports a compiled module provides.
package declaration

// ExportShape records which export forms a declaration file contains.
type ExportShape struct {
	// HasDefault is set by any `export default` declaration.
	HasDefault bool
	// HasNamed is set by any other export declaration (`export const`,
	// `export {}`, `export *`, `export =`, ...).
	HasNamed bool
}

// Classify scans declaration source and returns its export shape. Export
// keywords inside comments and string or template literals are ignored, as
// are member accesses such as `module.export`.
func Classify(src string) ExportShape {
	var shape ExportShape
	lx := lexer{src: src}
	for {
		tok, ok := lx.next()
		if !ok {
			return shape
		}
		if tok.kind != tokIdent || tok.text != "export" || lx.afterDot {
			continue
		}
		following, ok := lx.next()
		if !ok {
			// a bare `export` at end of input declares nothing
			return shape
		}
		if following.kind == tokIdent && following.text == "default" {
			shape.HasDefault = true
		} else {
			shape.HasNamed = true
		}
		if shape.HasDefault && shape.HasNamed {
			return shape
		}
	}
}
