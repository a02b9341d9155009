package classify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qi-principal/Package-machine/internal/common"
	"github.com/qi-principal/Package-machine/internal/model"
)

// fakeAPI is a canned chat completion backend.
type fakeAPI struct {
	err     error
	content string
	lastReq openai.ChatCompletionRequest
	calls   int
}

func (f *fakeAPI) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func newTestClient(api chatCompleter) *Client {
	return &Client{api: api, model: "deepseek-chat", temperature: 0.2}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrMissingConfig))
}

func TestClassifyMapsNamesToPaths(t *testing.T) {
	api := &fakeAPI{
		content: `{"report.docx": {"target_folder": "Documents", "reason": "Based on the file name and content this is clearly a business report document"}}`,
	}
	client := newTestClient(api)

	batch := []model.FileRecord{
		{Name: "report.docx", Path: "/downloads/report.docx", Size: 2048},
	}

	results, err := client.Classify(context.Background(), batch, []string{"Documents"})
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results["/downloads/report.docx"]
	assert.Equal(t, "Documents", result.Folder)
	assert.GreaterOrEqual(t, result.Confidence, 0.5)
}

func TestClassifySynthesizesFallbackForOmittedFiles(t *testing.T) {
	api := &fakeAPI{
		content: `{"covered.txt": {"target_folder": "Notes", "reason": "a short note"}}`,
	}
	client := newTestClient(api)

	batch := []model.FileRecord{
		{Name: "covered.txt", Path: "/src/covered.txt"},
		{Name: "skipped.bin", Path: "/src/skipped.bin"},
	}

	results, err := client.Classify(context.Background(), batch, nil)
	require.NoError(t, err)
	require.Len(t, results, 2, "every input file must have exactly one result")

	assert.Equal(t, "Notes", results["/src/covered.txt"].Folder)
	assert.Equal(t, model.Unclassified(), results["/src/skipped.bin"])
}

func TestClassifyEmptyFolderTreatedAsOmitted(t *testing.T) {
	api := &fakeAPI{
		content: `{"a.txt": {"target_folder": "", "reason": "no idea"}}`,
	}
	client := newTestClient(api)

	results, err := client.Classify(context.Background(), []model.FileRecord{{Name: "a.txt", Path: "/a.txt"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, model.Unclassified(), results["/a.txt"])
}

func TestClassifyServiceFailure(t *testing.T) {
	api := &fakeAPI{err: fmt.Errorf("connection refused")}
	client := newTestClient(api)

	_, err := client.Classify(context.Background(), []model.FileRecord{{Name: "a.txt", Path: "/a.txt"}}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrServiceFailure))
	assert.Equal(t, 1, api.calls, "the client must not retry internally")
}

func TestClassifyMalformedResponse(t *testing.T) {
	api := &fakeAPI{content: "I refuse to answer in JSON."}
	client := newTestClient(api)

	_, err := client.Classify(context.Background(), []model.FileRecord{{Name: "a.txt", Path: "/a.txt"}}, nil)

	var formatErr *common.ResponseFormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, "I refuse to answer in JSON.", formatErr.Raw)
}

func TestClassifyEmptyBatch(t *testing.T) {
	client := newTestClient(&fakeAPI{})
	_, err := client.Classify(context.Background(), nil, nil)
	assert.True(t, errors.Is(err, common.ErrNoFiles))
}

func TestClientAgainstHTTPBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"a.txt\": {\"target_folder\": \"Notes\", \"reason\": \"because it is clearly a short note file based on its content\"}}"}}]}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	results, err := client.Classify(context.Background(), []model.FileRecord{{Name: "a.txt", Path: "/a.txt"}}, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Notes", results["/a.txt"].Folder)
	assert.Greater(t, results["/a.txt"].Confidence, 0.5)
}

func TestClassifyRequestShape(t *testing.T) {
	api := &fakeAPI{content: `{"a.txt": {"target_folder": "Notes", "reason": "r"}}`}
	client := newTestClient(api)

	_, err := client.Classify(context.Background(), []model.FileRecord{{Name: "a.txt", Path: "/a.txt"}}, []string{"Notes"})
	require.NoError(t, err)

	req := api.lastReq
	require.Len(t, req.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, "valid JSON")
	assert.Equal(t, openai.ChatMessageRoleUser, req.Messages[1].Role)
	assert.Contains(t, req.Messages[1].Content, "File name: a.txt")
	assert.InDelta(t, 0.2, req.Temperature, 1e-6)
}
