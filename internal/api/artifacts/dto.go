package artifacts

import (
	"encoding/json"
	"fmt"

	"hogwarts-artifacts/internal/domain/artifacts"
)

// ArtifactRequest is the body of create and update. id and owner are
// accepted but ignored.
type ArtifactRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	ImageURL    string `json:"imgUrl" binding:"required"`
}

func (r ArtifactRequest) toModel() artifacts.Artifact {
	return artifacts.Artifact{
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
	}
}

// SearchCriteria flattens a search body to strings. Numbers and booleans are
// rendered as written, nulls are dropped, nested values are rejected.
func SearchCriteria(raw map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case nil:
		case string:
			out[k] = v
		case json.Number, bool, float64:
			out[k] = fmt.Sprint(v)
		default:
			return nil, fmt.Errorf("%s must be a scalar value", k)
		}
	}
	return out, nil
}
