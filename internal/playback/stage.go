package playback

// Stage marks progress through a standalone playback.
type Stage int

const (
	StageStart Stage = iota
	StageBuilt
	StageReported
	StageRan
	StageSkippedRun
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageBuilt:
		return "built"
	case StageReported:
		return "reported"
	case StageRan:
		return "ran"
	case StageSkippedRun:
		return "skipped-run"
	default:
		return "unknown"
	}
}

func trace(stage Stage, detail string) {
	log.Debugf("stage=%s %s", stage, detail)
}
