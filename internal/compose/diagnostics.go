package compose

import "sync"

// Diagnostic stages.
const (
	StageParse     = "parse"
	StageDecode    = "decode"
	StageKeyframes = "keyframes"
	StageRange     = "range"
)

// Diagnostic records one degraded-but-nonfatal event of a render: a
// dropped layer, discarded keyframe samples, a placeholder fallback. The
// renderer never fails hard, so callers that need to distinguish a clean
// render from a degraded one inspect these records.
type Diagnostic struct {
	Stage   string
	LayerID string
	Message string
}

// diagSink accumulates diagnostics; frames render concurrently, so
// appends are locked.
type diagSink struct {
	mu      sync.Mutex
	records []Diagnostic
}

func (s *diagSink) add(stage, layerID, message string) {
	s.mu.Lock()
	s.records = append(s.records, Diagnostic{Stage: stage, LayerID: layerID, Message: message})
	s.mu.Unlock()
}
