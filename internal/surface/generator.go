package surface

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/pkgbuilder/internal/declaration"
	pkgerrors "git.home.luguber.info/inful/pkgbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pkgbuilder/internal/logfields"
	"git.home.luguber.info/inful/pkgbuilder/internal/observability"
	"git.home.luguber.info/inful/pkgbuilder/internal/sourcetree"
	"git.home.luguber.info/inful/pkgbuilder/internal/toolchain"
)

// Artifact is one generated forwarding module and declaration pair. Paths are
// slash-separated and relative to the package root.
type Artifact struct {
	Source      string                  `json:"source"`
	Module      string                  `json:"module"`
	Declaration string                  `json:"declaration"`
	RequirePath string                  `json:"require_path"`
	Shape       declaration.ExportShape `json:"shape"`
}

// Report summarizes one Generate call.
type Report struct {
	// Transformed lists the output modules rewritten by the transform stage.
	Transformed []string
	Artifacts   []Artifact
}

// Generator runs the transform stage over compiled output and writes the
// public forwarding artifacts.
type Generator struct {
	transformer   toolchain.Transformer
	public        sourcetree.Marker
	autogenerated string
}

// NewGenerator creates a Generator. publicMarker tags public modules;
// autogeneratedMarker is written into every generated header.
func NewGenerator(transformer toolchain.Transformer, publicMarker sourcetree.Marker, autogeneratedMarker string) *Generator {
	return &Generator{transformer: transformer, public: publicMarker, autogenerated: autogeneratedMarker}
}

// Generate processes every .js and .jsx module under outputDir (a directory
// inside packageRoot) in listing order.
func (g *Generator) Generate(ctx context.Context, packageRoot, outputDir string, profile toolchain.Profile) (*Report, error) {
	// list before mutating: the loop rewrites and deletes entries
	tree, err := sourcetree.NewScanner(nil, sourcetree.Marker{}).Scan(outputDir)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, entry := range tree.Files(sourcetree.RoleSource) {
		if !moduleExt.MatchString(entry.Path) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		artifact, err := g.processModule(ctx, packageRoot, entry, profile)
		if err != nil {
			return nil, err
		}
		report.Transformed = append(report.Transformed, normalizeExt(entry.RelPath))
		if artifact != nil {
			report.Artifacts = append(report.Artifacts, *artifact)
		}
	}
	return report, nil
}

func (g *Generator) processModule(ctx context.Context, packageRoot string, entry sourcetree.Entry, profile toolchain.Profile) (*Artifact, error) {
	// #nosec G304 - path comes from listing the compiled output directory
	src, err := os.ReadFile(entry.Path)
	if err != nil {
		return nil, fsError(err, "failed to read compiled module", entry.Path)
	}
	isPublic := g.public.In(src)

	out, err := g.transformer.Transform(src, entry.Path, profile)
	if err != nil {
		return nil, err
	}
	target := normalizeExt(entry.Path)
	// #nosec G306 - generated JavaScript is world-readable like its sources
	if err := os.WriteFile(target, out, 0o644); err != nil {
		return nil, fsError(err, "failed to write transformed module", target)
	}
	if target != entry.Path {
		if err := os.Remove(entry.Path); err != nil {
			return nil, fsError(err, "failed to remove transformed source", entry.Path)
		}
	}

	if !isPublic {
		return nil, nil
	}
	return g.forward(ctx, packageRoot, entry)
}

func (g *Generator) forward(ctx context.Context, packageRoot string, entry sourcetree.Entry) (*Artifact, error) {
	declPath := declarationPath(entry.Path)
	// #nosec G304 - sibling declaration of a listed module
	decl, err := os.ReadFile(declPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, pkgerrors.DeclarationError(fmt.Sprintf("public module %s has no declaration file", entry.RelPath)).
				WithCause(pkgerrors.ErrMissingDeclaration).
				WithContext("path", declPath).
				Build()
		}
		return nil, fsError(err, "failed to read declaration", declPath)
	}

	publicFilename := filepath.Join(packageRoot, filepath.FromSlash(normalizeExt(entry.RelPath)))
	if err := os.MkdirAll(filepath.Dir(publicFilename), 0o750); err != nil {
		return nil, fsError(err, "failed to create public directory", filepath.Dir(publicFilename))
	}
	requirePath, err := RequirePath(publicFilename, entry.Path)
	if err != nil {
		return nil, pkgerrors.InternalError("failed to compute require path").
			WithCause(err).
			WithContext("path", publicFilename).
			Build()
	}

	shape := declaration.Classify(string(decl))
	publicDecl := declarationPath(publicFilename)

	// #nosec G306 - generated JavaScript is world-readable like its sources
	if err := os.WriteFile(publicFilename, []byte(renderModule(g.autogenerated, requirePath)), 0o644); err != nil {
		return nil, fsError(err, "failed to write forwarding module", publicFilename)
	}
	// #nosec G306 - see above
	if err := os.WriteFile(publicDecl, []byte(renderDeclaration(g.autogenerated, requirePath, shape)), 0o644); err != nil {
		return nil, fsError(err, "failed to write forwarding declaration", publicDecl)
	}

	artifact := &Artifact{
		Source:      relTo(packageRoot, normalizeExt(entry.Path)),
		Module:      relTo(packageRoot, publicFilename),
		Declaration: relTo(packageRoot, publicDecl),
		RequirePath: requirePath,
		Shape:       shape,
	}
	observability.DebugContext(ctx, "Generated forwarding module",
		logfields.File(artifact.Module),
		slog.String("require_path", requirePath),
		slog.Bool("default_export", shape.HasDefault),
		slog.Bool("named_export", shape.HasNamed))
	return artifact, nil
}

func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func fsError(err error, msg, path string) error {
	return pkgerrors.FileSystemError(msg).
		WithCause(err).
		WithContext("path", path).
		Build()
}
