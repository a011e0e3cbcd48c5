package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ai-forge-be/internal/bootstrap"
	"ai-forge-be/internal/config"
	"ai-forge-be/internal/constant"
	"ai-forge-be/internal/dto"
	"ai-forge-be/internal/pkg/serverutils"
	"ai-forge-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cannedReply = "Your game:\n```html\n<canvas id=\"g\"></canvas>\n```\nand a helper:\n```js\nconsole.log(1)\n```"

type cannedProvider struct{}

func (cannedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return cannedReply, nil
}

func (cannedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return cannedReply, nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := &config.Config{
		App: config.AppConfig{
			Port:               "0",
			Environment:        "test",
			LogFilePath:        filepath.Join(t.TempDir(), "app.log"),
			CorsAllowedOrigins: "*",
			BodyLimitMB:        1,
		},
		Ai: config.AIConfig{LLMModel: "canned"},
		Workspace: config.WorkspaceConfig{
			GenerationTimeout: time.Second,
			TTL:               time.Hour,
			PreviewLanguage:   "html",
		},
	}
	container := bootstrap.NewContainerWithProvider(cfg, cannedProvider{})
	t.Cleanup(container.Close)
	return New(cfg, container).GetApp()
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func jsonRequest(method, path string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, body []byte) serverutils.BaseResponse[T] {
	t.Helper()
	var env serverutils.BaseResponse[T]
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return env
}

func createWorkspace(t *testing.T, app *fiber.App) uuid.UUID {
	t.Helper()
	resp, body := do(t, app, jsonRequest("POST", "/api/workspace/v1", nil))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))
	return decode[dto.WorkspaceResponse](t, body).Data.Id
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	resp, _ := do(t, app, httptest.NewRequest("GET", "/api/health", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestWorkspaceFlow(t *testing.T) {
	app := newTestApp(t)
	id := createWorkspace(t, app)
	base := "/api/workspace/v1/" + id.String()

	// Preview is empty until a generation succeeds
	resp, _ := do(t, app, httptest.NewRequest("GET", base+"/preview", nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, body := do(t, app, jsonRequest("POST", base+"/turns?wait=true", dto.SubmitTurnRequest{Prompt: "snake game"}))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	turn := decode[dto.SubmitTurnResponse](t, body).Data
	assert.True(t, turn.Accepted)
	assert.False(t, turn.Workspace.Generating)
	assert.Equal(t, "preview", turn.Workspace.ActiveView)
	require.Len(t, turn.Workspace.Turns, 3)
	assert.Equal(t, cannedReply, turn.Workspace.Turns[2].Text)

	resp, body = do(t, app, httptest.NewRequest("GET", base+"/preview", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "<canvas id=\"g\"></canvas>\n", string(body))
	assert.Equal(t, constant.PreviewSandboxPolicy, resp.Header.Get("Content-Security-Policy"))
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))

	resp, body = do(t, app, httptest.NewRequest("GET", base+"/source", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "<canvas id=\"g\"></canvas>\n\n\nconsole.log(1)\n", string(body))

	resp, body = do(t, app, jsonRequest("POST", base+"/turns", dto.SubmitTurnRequest{Prompt: "   "}))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.False(t, decode[dto.SubmitTurnResponse](t, body).Data.Accepted)

	resp, body = do(t, app, jsonRequest("PUT", base+"/view", dto.SetViewRequest{View: "docs"}))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "docs", decode[dto.WorkspaceResponse](t, body).Data.ActiveView)

	resp, body = do(t, app, httptest.NewRequest("GET", base+"/stats", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	stats := decode[dto.StatsResponse](t, body).Data
	assert.Equal(t, "canned", stats.Engine)
	assert.Equal(t, 3, stats.Turns)

	resp, _ = do(t, app, httptest.NewRequest("DELETE", base, nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = do(t, app, httptest.NewRequest("GET", base, nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSubmitTurn_Async(t *testing.T) {
	app := newTestApp(t)
	id := createWorkspace(t, app)

	resp, body := do(t, app, jsonRequest("POST", "/api/workspace/v1/"+id.String()+"/turns", dto.SubmitTurnRequest{Prompt: "go"}))
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode, string(body))
	res := decode[dto.SubmitTurnResponse](t, body).Data
	assert.True(t, res.Accepted)
	require.Len(t, res.Workspace.Turns, 2)
	assert.Equal(t, "go", res.Workspace.Turns[1].Text)

	assert.Eventually(t, func() bool {
		_, body := do(t, app, httptest.NewRequest("GET", "/api/workspace/v1/"+id.String(), nil))
		return !decode[dto.WorkspaceResponse](t, body).Data.Generating
	}, 2*time.Second, 20*time.Millisecond)
}

func TestContextRoutes(t *testing.T) {
	app := newTestApp(t)
	id := createWorkspace(t, app)
	base := "/api/workspace/v1/" + id.String()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("files", "style.css")
	_, _ = fw.Write([]byte("body { color: red }"))
	fw, _ = mw.CreateFormFile("files", "sprite.bin")
	_, _ = fw.Write([]byte{0x00, 0x01, 0x02})
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", base+"/context", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, body := do(t, app, req)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))
	items := decode[[]dto.ContextItemResponse](t, body).Data
	require.Len(t, items, 2)
	assert.True(t, items[0].IsText)
	assert.False(t, items[1].IsText)

	resp, body = do(t, app, jsonRequest("POST", base+"/context/text", dto.AddTextContextRequest{Content: "no name"}))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, string(body))

	resp, body = do(t, app, jsonRequest("POST", base+"/context/text", dto.AddTextContextRequest{Name: "brief.md", Content: "# Brief"}))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))

	resp, _ = do(t, app, httptest.NewRequest("DELETE", base+"/context/"+items[1].Id.String(), nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = do(t, app, httptest.NewRequest("DELETE", base+"/context/"+items[1].Id.String(), nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	_, body = do(t, app, httptest.NewRequest("GET", base, nil))
	assert.Len(t, decode[dto.WorkspaceResponse](t, body).Data.Context, 2)
}

func TestErrors(t *testing.T) {
	app := newTestApp(t)
	id := createWorkspace(t, app)

	tests := []struct {
		name string
		req  *http.Request
		code int
	}{
		{"bad id", httptest.NewRequest("GET", "/api/workspace/v1/not-a-uuid", nil), fiber.StatusBadRequest},
		{"unknown workspace", httptest.NewRequest("GET", "/api/workspace/v1/"+uuid.NewString(), nil), fiber.StatusNotFound},
		{"bad view", jsonRequest("PUT", "/api/workspace/v1/"+id.String()+"/view", dto.SetViewRequest{View: "gallery"}), fiber.StatusBadRequest},
		{"ws without upgrade", httptest.NewRequest("GET", "/api/workspace/v1/"+id.String()+"/ws", nil), fiber.StatusUpgradeRequired},
		{"no files", jsonRequest("POST", "/api/workspace/v1/"+id.String()+"/context", nil), fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, app, tt.req)
			assert.Equal(t, tt.code, resp.StatusCode, string(body))
			assert.False(t, decode[any](t, body).Success)
		})
	}
}
