package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bare object", `{"overall": 80}`, `{"overall": 80}`},
		{"surrounded by prose", `Here is the result: {"overall": 80} hope it helps`, `{"overall": 80}`},
		{"code fence", "```json\n{\"overall\": 80}\n```", `{"overall": 80}`},
		{"no object", "I cannot evaluate this session.", ""},
		{"empty", "", ""},
		{"closing brace first", "} nothing {", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSONObject(tt.content))
		})
	}
}

func TestExtractJSONObjectRoundTrip(t *testing.T) {
	content := "Evaluation complete.\n\n{\"parameter1\": 7.5, \"overall\": 81, \"caseSolved\": true, \"summary\": \"Good work.\"}\n\nLet me know if you need more."

	raw := extractJSONObject(content)
	require.NotEmpty(t, raw)

	var score scorePayload
	require.NoError(t, json.Unmarshal([]byte(raw), &score))
	require.NotNil(t, score.Parameter1)
	assert.Equal(t, 7.5, *score.Parameter1)
	require.NotNil(t, score.Overall)
	assert.Equal(t, 81.0, *score.Overall)
	assert.True(t, score.CaseSolved)
	assert.Equal(t, "Good work.", score.Summary)
}

func TestClampScore(t *testing.T) {
	assert.Nil(t, clampScore(nil, 10))

	clamped := clampScore(fptr(-2), 10)
	require.NotNil(t, clamped)
	assert.Equal(t, 0.0, *clamped)

	clamped = clampScore(fptr(14), 10)
	assert.Equal(t, 10.0, *clamped)

	clamped = clampScore(fptr(120), 100)
	assert.Equal(t, 100.0, *clamped)

	clamped = clampScore(fptr(8.5), 10)
	assert.Equal(t, 8.5, *clamped)
}
