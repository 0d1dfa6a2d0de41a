package domain

// ModelType categorizes what a loaded model is used for. Unassigned matches
// any type filter during least-busy selection.
type ModelType string

const (
	ModelInference  ModelType = "inference"
	ModelSTT        ModelType = "stt"
	ModelTTS        ModelType = "tts"
	ModelEmbedding  ModelType = "embedding"
	ModelUnassigned ModelType = "unassigned"
)

// ModelInfo is the read-only metadata surfaced about a loaded model, e.g.
// for the daemon's periodic pool metrics sampling.
type ModelInfo struct {
	ID             int
	Type           ModelType
	Path           string
	ActiveRequests uint
}
