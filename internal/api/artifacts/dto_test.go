package artifacts

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCriteria(t *testing.T) {
	raw := map[string]any{}
	dec := json.NewDecoder(strings.NewReader(`{"id": 1250808601744904191, "name": "Wand", "description": null, "owned": true}`))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&raw))

	got, err := SearchCriteria(raw)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"id":    "1250808601744904191",
		"name":  "Wand",
		"owned": "true",
	}, got)
}

func TestSearchCriteriaRejectsNested(t *testing.T) {
	_, err := SearchCriteria(map[string]any{"name": map[string]any{"like": "Wand"}})
	assert.ErrorContains(t, err, "name")
}
