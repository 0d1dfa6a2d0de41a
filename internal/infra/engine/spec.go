package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/granville-run/granville/internal/domain"
)

// Spec is a parsed model-spec argument, grammar `path` | `type:path` |
// `type:id:path`.
type Spec struct {
	Type domain.ModelType
	ID   int // 0 means "auto-assign"
	Path string
}

var validTypes = map[string]domain.ModelType{
	"inference": domain.ModelInference,
	"stt":       domain.ModelSTT,
	"tts":       domain.ModelTTS,
	"embedding": domain.ModelEmbedding,
}

// ParseSpec parses a colon-delimited model-spec string. A bare path has no
// type (treated as unassigned) and no explicit id.
func ParseSpec(s string) (Spec, error) {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		return Spec{Type: domain.ModelUnassigned, Path: parts[0]}, nil
	case 2:
		t, ok := validTypes[parts[0]]
		if !ok {
			return Spec{}, fmt.Errorf("%w: unknown model type %q", domain.ErrInvalidRequest, parts[0])
		}
		return Spec{Type: t, Path: parts[1]}, nil
	case 3:
		t, ok := validTypes[parts[0]]
		if !ok {
			return Spec{}, fmt.Errorf("%w: unknown model type %q", domain.ErrInvalidRequest, parts[0])
		}
		id, err := strconv.Atoi(parts[1])
		if err != nil || id <= 0 {
			return Spec{}, fmt.Errorf("%w: model id must be a positive integer, got %q", domain.ErrInvalidRequest, parts[1])
		}
		return Spec{Type: t, ID: id, Path: parts[2]}, nil
	default:
		return Spec{}, fmt.Errorf("%w: malformed model spec %q", domain.ErrInvalidRequest, s)
	}
}

// Format is the inverse of ParseSpec; ParseSpec(Format(s)) is the identity
// on well-formed specs.
func (s Spec) Format() string {
	typeToken := string(s.Type)
	if s.Type == domain.ModelUnassigned {
		return s.Path
	}
	if s.ID == 0 {
		return typeToken + ":" + s.Path
	}
	return fmt.Sprintf("%s:%d:%s", typeToken, s.ID, s.Path)
}
