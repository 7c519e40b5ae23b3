package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://llm.test/v1"

func setupHTTPMock(t *testing.T) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

// registerCompletion answers chat completions with the given assistant content.
func registerCompletion(t *testing.T, content string) {
	t.Helper()
	httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/chat/completions",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "Bearer test-key", req.Header.Get("Authorization"))

			var body chatRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				return httpmock.NewStringResponse(http.StatusBadRequest, `{"error":{"message":"bad body"}}`), nil
			}
			assert.Equal(t, "test-model", body.Model)
			assert.Len(t, body.Messages, 2)

			return httpmock.NewJsonResponse(http.StatusOK, map[string]any{
				"choices": []any{
					map[string]any{"message": map[string]any{"role": "assistant", "content": content}},
				},
			})
		})
}

func newTestOpenAI() *OpenAI {
	return NewOpenAI(OpenAIConfig{BaseURL: testBaseURL, APIKey: "test-key", Model: "test-model"})
}

func TestOpenAI_Extract(t *testing.T) {
	setupHTTPMock(t)
	registerCompletion(t, `{"names": ["Alice", "alice", "Bob"]}`)

	names, err := newTestOpenAI().Extract(context.TODO(), "Alice met Bob. alice laughed.")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "alice", "Bob"}, names)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestOpenAI_Extract_EmptyTextSkipsCall(t *testing.T) {
	setupHTTPMock(t)

	names, err := newTestOpenAI().Extract(context.TODO(), "   ")
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}

func TestOpenAI_Extract_UnusableShape(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not_json", `Alice and Bob`},
		{"missing_names", `{"people": ["Alice"]}`},
		{"names_not_array", `{"names": "Alice"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupHTTPMock(t)
			registerCompletion(t, tt.content)

			names, err := newTestOpenAI().Extract(context.TODO(), "Alice and Bob")
			require.Error(t, err)
			assert.Nil(t, names)
		})
	}
}

func TestOpenAI_HTTPError(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/chat/completions",
		httpmock.NewStringResponder(http.StatusTooManyRequests, `{"error":{"message":"rate limited"}}`))

	_, err := newTestOpenAI().Extract(context.TODO(), "Alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")

	record, err := newTestOpenAI().Summarize(context.TODO(), "Alice", []string{"Alice"})
	require.Error(t, err)
	assert.Nil(t, record)
}

func TestOpenAI_Summarize(t *testing.T) {
	setupHTTPMock(t)
	registerCompletion(t, `{"name": "Dana Scully", "occupation": "doctor", "interests": ["science"], "age": null}`)

	record, err := newTestOpenAI().Summarize(context.TODO(), "Dana", []string{"Dana is a doctor.", "Dana likes science."})
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "Dana Scully", record.DisplayName())
	assert.Equal(t, "doctor", string(record.Occupation))
	assert.Equal(t, []string{"science"}, []string(record.Interests))
	assert.Empty(t, record.Age)
}

func TestOpenAI_Summarize_NullAnswer(t *testing.T) {
	for _, content := range []string{"null", "{}"} {
		t.Run(content, func(t *testing.T) {
			setupHTTPMock(t)
			registerCompletion(t, content)

			record, err := newTestOpenAI().Summarize(context.TODO(), "Dana", []string{"Dana"})
			require.NoError(t, err)
			assert.Nil(t, record)
		})
	}
}

func TestOpenAI_Summarize_NoChoices(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/chat/completions",
		httpmock.NewStringResponder(http.StatusOK, `{"choices": []}`))

	record, err := newTestOpenAI().Summarize(context.TODO(), "Dana", []string{"Dana"})
	assert.ErrorIs(t, err, ErrUnusableResponse)
	assert.Nil(t, record)
}
