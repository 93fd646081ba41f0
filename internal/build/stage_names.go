package build

// Stage names used for logging context and metrics labels.
const (
	StageFingerprint = "fingerprint"
	StageGate        = "gate"
	StageSweep       = "sweep"
	StageCompile     = "compile"
	StageTransform   = "transform"
	StagePersist     = "persist"
)
