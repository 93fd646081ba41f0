package incremental

import (
	"log/slog"

	"git.home.luguber.info/inful/pkgbuilder/internal/fingerprint"
	pkgerrors "git.home.luguber.info/inful/pkgbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pkgbuilder/internal/logfields"
)

// Gate is the staleness check run before any build work.
type Gate struct {
	store *Store
}

// NewGate creates a Gate over store.
func NewGate(store *Store) *Gate {
	return &Gate{store: store}
}

// ShouldSkip reports whether the build can be skipped: true iff force is
// false and the persisted fingerprint equals fp. A never-built package is
// never skipped.
func (g *Gate) ShouldSkip(fp fingerprint.Fingerprint, force bool) (bool, error) {
	if force {
		slog.Debug("Forced rebuild requested", logfields.Fingerprint(string(fp)))
		return false, nil
	}

	last, found, err := g.store.Read()
	if err != nil {
		return false, pkgerrors.FileSystemError("failed to read persisted fingerprint").
			WithCause(err).
			WithContext("path", g.store.Path()).
			Build()
	}
	if !found {
		slog.Debug("No persisted fingerprint; package never built", logfields.Path(g.store.Path()))
		return false, nil
	}

	if last == fp {
		slog.Debug("Fingerprint unchanged", logfields.Fingerprint(string(fp)))
		return true, nil
	}
	slog.Debug("Fingerprint changed", slog.String("previous", string(last)), logfields.Fingerprint(string(fp)))
	return false, nil
}
