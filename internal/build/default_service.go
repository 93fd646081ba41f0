package build

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/pkgbuilder/internal/config"
	"git.home.luguber.info/inful/pkgbuilder/internal/events"
	"git.home.luguber.info/inful/pkgbuilder/internal/fingerprint"
	pkgerrors "git.home.luguber.info/inful/pkgbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pkgbuilder/internal/incremental"
	"git.home.luguber.info/inful/pkgbuilder/internal/logfields"
	"git.home.luguber.info/inful/pkgbuilder/internal/manifest"
	"git.home.luguber.info/inful/pkgbuilder/internal/metrics"
	"git.home.luguber.info/inful/pkgbuilder/internal/observability"
	"git.home.luguber.info/inful/pkgbuilder/internal/sourcetree"
	"git.home.luguber.info/inful/pkgbuilder/internal/surface"
	"git.home.luguber.info/inful/pkgbuilder/internal/sweeper"
	"git.home.luguber.info/inful/pkgbuilder/internal/toolchain"
	"git.home.luguber.info/inful/pkgbuilder/internal/workspace"
)

const publishTimeout = 5 * time.Second

// DefaultBuildService is the standard implementation of BuildService.
type DefaultBuildService struct {
	cfg         *config.Config
	compiler    toolchain.Compiler
	transformer toolchain.Transformer
	recorder    metrics.Recorder
	publisher   events.Publisher
}

// NewBuildService creates a DefaultBuildService using the external compiler
// and the esbuild transform stage configured in cfg.
func NewBuildService(cfg *config.Config) *DefaultBuildService {
	return &DefaultBuildService{
		cfg:         cfg,
		compiler:    toolchain.NewBinaryCompiler(cfg.Compiler.Command, cfg.Compiler.Args, cfg.Mode),
		transformer: toolchain.NewEsbuildTransformer(cfg.Mode),
		recorder:    metrics.NoopRecorder{},
		publisher:   events.NoopPublisher{},
	}
}

// WithCompiler replaces the compiler (for testing).
func (s *DefaultBuildService) WithCompiler(c toolchain.Compiler) *DefaultBuildService {
	s.compiler = c
	return s
}

// WithTransformer replaces the transform stage (for testing).
func (s *DefaultBuildService) WithTransformer(t toolchain.Transformer) *DefaultBuildService {
	s.transformer = t
	return s
}

// WithRecorder sets the metrics recorder.
func (s *DefaultBuildService) WithRecorder(r metrics.Recorder) *DefaultBuildService {
	if r != nil {
		s.recorder = r
	}
	return s
}

// WithPublisher sets the build event publisher.
func (s *DefaultBuildService) WithPublisher(p events.Publisher) *DefaultBuildService {
	if p != nil {
		s.publisher = p
	}
	return s
}

// target is the resolved inputs of one package build.
type target struct {
	layout  workspace.Layout
	pkg     *manifest.PackageManifest
	root    *manifest.PackageManifest
	scanner *sourcetree.Scanner
	store   *incremental.Store
}

func (s *DefaultBuildService) scanner() *sourcetree.Scanner {
	return sourcetree.NewScanner(s.cfg.IgnoredNames(), sourcetree.NewMarker(s.cfg.Markers.Autogenerated))
}

func (s *DefaultBuildService) resolve(req BuildRequest) (*target, error) {
	layout, err := workspace.Resolve(req.PackageRoot, req.RepoRoot, s.cfg.PackagesDir)
	if err != nil {
		return nil, err
	}
	pkg, err := manifest.Load(layout.PackageManifestPath(), s.cfg.TargetField)
	if err != nil {
		return nil, err
	}
	root, err := manifest.Load(layout.RootManifestPath(), s.cfg.TargetField)
	if err != nil {
		return nil, err
	}
	return &target{
		layout:  layout,
		pkg:     pkg,
		root:    root,
		scanner: s.scanner(),
		store:   incremental.NewStore(layout.PackageRoot, s.cfg.FingerprintFile),
	}, nil
}

// Run executes the pipeline for one package.
func (s *DefaultBuildService) Run(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	startTime := time.Now()
	result := &BuildResult{
		BuildID:   uuid.NewString(),
		Package:   packageLabel(req.PackageRoot, nil),
		StartTime: startTime,
	}
	ctx = observability.WithBuildID(ctx, result.BuildID)

	err := s.run(ctx, req, result)
	err = withPackage(err, result.Package)
	s.finish(ctx, result, err)
	return result, err
}

func (s *DefaultBuildService) run(ctx context.Context, req BuildRequest, result *BuildResult) error {
	t, err := s.resolve(req)
	if err != nil {
		return err
	}
	result.Package = packageLabel(t.layout.PackageRoot, t.pkg)
	ctx = observability.WithPackage(ctx, result.Package)

	engine := fingerprint.NewEngine(t.scanner, t.layout, s.cfg.FingerprintFile)
	var fp *fingerprint.Result
	if err := s.stage(ctx, StageFingerprint, func(context.Context) error {
		fp, err = engine.Compute(t.layout.PackageRoot, t.pkg, t.root)
		return err
	}); err != nil {
		return err
	}
	result.Fingerprint = fp.Digest

	var skip bool
	if err := s.stage(ctx, StageGate, func(context.Context) error {
		skip, err = incremental.NewGate(t.store).ShouldSkip(fp.Digest, req.Force)
		return err
	}); err != nil {
		return err
	}
	if skip {
		result.Status = BuildStatusSkipped
		observability.DebugContext(ctx, "Package up to date, skipping build", logfields.Fingerprint(string(fp.Digest)))
		return nil
	}

	observability.InfoContext(ctx, "building "+result.Package,
		logfields.Count(len(fp.Files)),
		slog.Bool("forced", req.Force))

	if err := s.stage(ctx, StageSweep, func(context.Context) error {
		result.Swept, err = sweeper.New(t.scanner).Sweep(t.layout.PackageRoot)
		s.recorder.AddSwept(len(result.Swept))
		return err
	}); err != nil {
		return err
	}

	if err := s.stage(ctx, StageCompile, func(ctx context.Context) error {
		return s.compiler.Compile(ctx, t.layout.PackageRoot)
	}); err != nil {
		return err
	}

	profile := toolchain.ProfileFor(t.pkg.Target)
	if err := s.stage(ctx, StageTransform, func(ctx context.Context) error {
		gen := surface.NewGenerator(s.transformer, sourcetree.NewMarker(s.cfg.Markers.Public), s.cfg.Markers.Autogenerated)
		report, err := gen.Generate(ctx, t.layout.PackageRoot, filepath.Join(t.layout.PackageRoot, s.cfg.OutputDir), profile)
		if err != nil {
			return err
		}
		result.Artifacts = report.Artifacts
		observability.DebugContext(ctx, "Transformed compiled output",
			logfields.Profile(profile.String()),
			logfields.Count(len(report.Transformed)),
			slog.Int("artifacts", len(report.Artifacts)))
		return nil
	}); err != nil {
		return err
	}
	s.recorder.SetArtifacts(result.Package, len(result.Artifacts))

	// The persisted digest covers the tree as this build left it, forwarding
	// artifacts included, so the next run only skips while they are intact.
	if err := s.stage(ctx, StagePersist, func(context.Context) error {
		settled, err := engine.Compute(t.layout.PackageRoot, t.pkg, t.root)
		if err != nil {
			return err
		}
		result.Fingerprint = settled.Digest
		return t.store.Write(settled.Digest)
	}); err != nil {
		return err
	}

	result.Status = BuildStatusSuccess
	return nil
}

// stage runs fn as a named pipeline stage, recording its duration and result.
func (s *DefaultBuildService) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx = observability.WithStage(ctx, name)
	if err := ctx.Err(); err != nil {
		s.recorder.IncStageResult(name, metrics.ResultCanceled)
		return err
	}

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	s.recorder.ObserveStageDuration(name, elapsed)

	switch {
	case err == nil:
		s.recorder.IncStageResult(name, metrics.ResultSuccess)
		observability.DebugContext(ctx, "Stage complete", logfields.Duration(elapsed))
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		s.recorder.IncStageResult(name, metrics.ResultCanceled)
	default:
		s.recorder.IncStageResult(name, metrics.ResultFatal)
		observability.DebugContext(ctx, "Stage failed", logfields.Duration(elapsed), logfields.Error(err))
	}
	return err
}

func (s *DefaultBuildService) finish(ctx context.Context, result *BuildResult, err error) {
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	if err != nil {
		result.Status = BuildStatusFailed
	}

	switch result.Status {
	case BuildStatusSkipped:
		s.recorder.IncBuildOutcome(metrics.OutcomeSkipped)
	case BuildStatusSuccess:
		s.recorder.IncBuildOutcome(metrics.OutcomeSuccess)
	default:
		s.recorder.IncBuildOutcome(metrics.OutcomeFailed)
	}
	s.recorder.ObserveBuildDuration(result.Duration)

	event := &events.BuildEvent{
		BuildID:     result.BuildID,
		Package:     result.Package,
		Status:      string(result.Status),
		Fingerprint: string(result.Fingerprint),
		DurationMS:  result.Duration.Milliseconds(),
	}
	for _, a := range result.Artifacts {
		event.Artifacts = append(event.Artifacts, a.Module)
	}
	if err != nil {
		event.Error = err.Error()
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if perr := s.publisher.Publish(pubCtx, event); perr != nil {
		observability.WarnContext(ctx, "Failed to publish build event", logfields.Error(perr))
	}
}

// Inspection is the read-only staleness view of a package.
type Inspection struct {
	Package     string
	Fingerprint *fingerprint.Result
	// Persisted is the fingerprint of the last successful build, empty when
	// the package was never built.
	Persisted fingerprint.Fingerprint
	Stale     bool
}

// Inspect computes the package fingerprint and compares it with the persisted
// one without building or writing anything.
func (s *DefaultBuildService) Inspect(ctx context.Context, req BuildRequest) (*Inspection, error) {
	t, err := s.resolve(req)
	if err != nil {
		return nil, withPackage(err, packageLabel(req.PackageRoot, nil))
	}
	name := packageLabel(t.layout.PackageRoot, t.pkg)
	ctx = observability.WithPackage(ctx, name)

	fp, err := fingerprint.NewEngine(t.scanner, t.layout, s.cfg.FingerprintFile).Compute(t.layout.PackageRoot, t.pkg, t.root)
	if err != nil {
		return nil, withPackage(err, name)
	}
	persisted, found, err := t.store.Read()
	if err != nil {
		return nil, withPackage(pkgerrors.FileSystemError("failed to read persisted fingerprint").
			WithCause(err).
			WithContext("path", t.store.Path()).
			Build(), name)
	}

	insp := &Inspection{
		Package:     name,
		Fingerprint: fp,
		Persisted:   persisted,
		Stale:       !found || persisted != fp.Digest,
	}
	observability.DebugContext(ctx, "Inspected package",
		logfields.Fingerprint(string(fp.Digest)),
		slog.Bool("stale", insp.Stale))
	return insp, nil
}

// Sweep removes the package's autogenerated files without building.
func (s *DefaultBuildService) Sweep(ctx context.Context, req BuildRequest) ([]string, error) {
	root, err := filepath.Abs(req.PackageRoot)
	if err != nil {
		return nil, pkgerrors.FileSystemError("failed to resolve package root").WithCause(err).Build()
	}
	ctx = observability.WithStage(ctx, StageSweep)
	removed, err := sweeper.New(s.scanner()).Sweep(root)
	if err != nil {
		return nil, withPackage(err, filepath.Base(root))
	}
	s.recorder.AddSwept(len(removed))
	observability.InfoContext(ctx, "Swept autogenerated files", logfields.Path(root), logfields.Count(len(removed)))
	return removed, nil
}

func packageLabel(packageRoot string, pkg *manifest.PackageManifest) string {
	if pkg != nil && pkg.Name != "" {
		return pkg.Name
	}
	if abs, err := filepath.Abs(packageRoot); err == nil {
		return filepath.Base(abs)
	}
	return filepath.Base(packageRoot)
}

// withPackage attaches the package name to err for diagnostics.
func withPackage(err error, name string) error {
	if err == nil {
		return nil
	}
	if classified, ok := pkgerrors.AsClassified(err); ok {
		return classified.WithContext(pkgerrors.ContextKeyPackage, name)
	}
	return pkgerrors.InternalError("build aborted").
		WithCause(err).
		WithContext(pkgerrors.ContextKeyPackage, name).
		Build()
}
