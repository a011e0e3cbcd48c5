package workspace

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-forge-be/internal/constant"
	"ai-forge-be/internal/pkg/logger"
	"ai-forge-be/pkg/interpreter"
	"ai-forge-be/pkg/llm"
	"ai-forge-be/pkg/store"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const logModule = "WorkspaceController"

// Listener observes every state change. It runs outside the workspace lock.
type Listener func(kind string, snap store.Snapshot)

// Settings tune one controller
type Settings struct {
	PreviewTag     string
	Temperature    float64
	ThinkingBudget int
	Model          string        // empty keeps the provider default
	Timeout        time.Duration // 0 waits forever
	Engine         string        // label shown in the docs view
}

// Controller sequences request/response cycles against a workspace.
// All mutation happens under the workspace lock; the provider call is the only
// work done without it.
type Controller struct {
	provider    llm.LLMProvider
	interpreter *interpreter.Interpreter
	settings    Settings
	logger      logger.ILogger
	tracer      trace.Tracer
	listener    Listener
	now         func() time.Time
}

func NewController(provider llm.LLMProvider, settings Settings, log logger.ILogger) *Controller {
	return &Controller{
		provider:    provider,
		interpreter: interpreter.New(settings.PreviewTag),
		settings:    settings,
		logger:      log,
		tracer:      otel.Tracer("ai-forge-be/pkg/workspace"),
		listener:    func(string, store.Snapshot) {},
		now:         time.Now,
	}
}

// OnChange installs the state change listener
func (c *Controller) OnChange(l Listener) {
	if l == nil {
		l = func(string, store.Snapshot) {}
	}
	c.listener = l
}

// Outcome is how a submission resolved
type Outcome struct {
	Succeeded bool
	Turn      store.Turn  // model turn appended on resolution
	View      *store.View // view switch applied, nil when unchanged
	Err       error       // provider error on failure
}

// Pending is the handle of one in-flight submission
type Pending struct {
	done    chan struct{}
	outcome Outcome
}

// Done is closed once the submission resolved
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until resolution or until ctx ends
func (p *Pending) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-p.done:
		return p.outcome, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

type request struct {
	prompt  string
	history []store.Turn
	items   []store.ContextItem
}

// Submit dispatches prompt. It reports false, changing nothing, when the
// prompt is blank or a submission is already generating.
func (c *Controller) Submit(ws *store.Workspace, prompt string) (*Pending, bool) {
	if strings.TrimSpace(prompt) == "" {
		return nil, false
	}

	ws.Lock()
	if ws.Generating {
		ws.Unlock()
		return nil, false
	}

	now := c.now()
	req := request{
		prompt:  prompt,
		history: ws.Conversation.Snapshot(),
		items:   ws.Context.Snapshot(),
	}
	ws.Conversation.Append(store.Turn{Role: store.RoleUser, Text: prompt, Timestamp: now})
	ws.Generating = true
	ws.Touch(now)
	snap := ws.Snapshot()
	ws.Unlock()

	c.logger.Info(logModule, "Dispatching generation", map[string]interface{}{
		"workspace_id":  ws.ID.String(),
		"prompt_length": len(prompt),
		"context_items": len(req.items),
		"history_turns": len(req.history),
	})
	c.listener(constant.EventTurnDispatched, snap)

	pending := &Pending{done: make(chan struct{})}
	go c.resolve(ws, req, pending)
	return pending, true
}

func (c *Controller) resolve(ws *store.Workspace, req request, pending *Pending) {
	defer close(pending.done)

	ctx := context.Background()
	if c.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.settings.Timeout)
		defer cancel()
	}

	ctx, span := c.tracer.Start(ctx, "workspace.generate", trace.WithAttributes(
		attribute.String("workspace.id", ws.ID.String()),
		attribute.Int("prompt.length", len(req.prompt)),
		attribute.Int("context.items", len(req.items)),
	))
	defer span.End()

	text, err := c.complete(ctx, req)

	ws.Lock()
	now := c.now()
	var outcome Outcome
	if err != nil {
		outcome.Err = err
		outcome.Turn = store.Turn{
			Role:      store.RoleModel,
			Text:      constant.GenerationErrorMessage,
			Timestamp: now,
			Synthetic: true,
		}
	} else {
		res := c.interpreter.Interpret(text, ws.Artifacts)
		ws.Artifacts = res.Artifacts
		if res.View != nil {
			ws.ActiveView = *res.View
		}
		if text == "" {
			text = constant.EmptyResponseMessage
		}
		outcome.Succeeded = true
		outcome.View = res.View
		outcome.Turn = store.Turn{Role: store.RoleModel, Text: text, Timestamp: now}
	}
	ws.Conversation.Append(outcome.Turn)
	ws.Generating = false
	ws.Touch(now)
	snap := ws.Snapshot()
	ws.Unlock()

	pending.outcome = outcome

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		c.logger.Error(logModule, "Generation failed", map[string]interface{}{
			"workspace_id": ws.ID.String(),
			"error":        err,
			"reason":       err.Error(),
		})
		c.listener(constant.EventGenerationFailed, snap)
		return
	}

	span.SetAttributes(
		attribute.Int("response.length", len(text)),
		attribute.Bool("preview.updated", outcome.View != nil && *outcome.View == store.ViewPreview),
	)
	c.logger.Info(logModule, "Generation completed", map[string]interface{}{
		"workspace_id":    ws.ID.String(),
		"response_length": len(text),
		"active_view":     string(snap.ActiveView),
	})
	c.listener(constant.EventGenerationCompleted, snap)
}

// complete calls the provider; a panic inside it is reported as an error
func (c *Controller) complete(ctx context.Context, req request) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("completion provider panicked: %v", r)
		}
	}()

	msgs := llm.BuildRequest(req.prompt, toMessages(req.history), toAttachments(req.items))

	opts := []llm.Option{
		llm.WithSystemInstruction(fmt.Sprintf(constant.SystemInstructionV1, c.interpreter.PreviewTag())),
		llm.WithTemperature(c.settings.Temperature),
	}
	if c.settings.ThinkingBudget > 0 {
		opts = append(opts, llm.WithThinkingBudget(c.settings.ThinkingBudget))
	}
	if c.settings.Model != "" {
		opts = append(opts, llm.WithModel(c.settings.Model))
	}

	return c.provider.Chat(ctx, msgs, opts...)
}

// AddContext stores new items; a submission already in flight keeps the
// snapshot it captured at dispatch.
func (c *Controller) AddContext(ws *store.Workspace, items ...store.ContextItem) {
	if len(items) == 0 {
		return
	}
	ws.Lock()
	ws.Context.Add(items...)
	ws.Touch(c.now())
	snap := ws.Snapshot()
	ws.Unlock()

	c.listener(constant.EventContextChanged, snap)
}

// RemoveContext drops one item and reports whether it existed
func (c *Controller) RemoveContext(ws *store.Workspace, id uuid.UUID) bool {
	ws.Lock()
	removed := ws.Context.Remove(id)
	if removed {
		ws.Touch(c.now())
	}
	snap := ws.Snapshot()
	ws.Unlock()

	if removed {
		c.listener(constant.EventContextChanged, snap)
	}
	return removed
}

// SetView switches the displayed panel on user request
func (c *Controller) SetView(ws *store.Workspace, view store.View) {
	ws.Lock()
	changed := ws.ActiveView != view
	ws.ActiveView = view
	if changed {
		ws.Touch(c.now())
	}
	snap := ws.Snapshot()
	ws.Unlock()

	if changed {
		c.listener(constant.EventViewChanged, snap)
	}
}

// Stats backs the docs view
type Stats struct {
	FilesUploaded   int
	ContextBytes    int64
	Turns           int
	EstimatedTokens int
	Engine          string
}

func (c *Controller) Stats(ws *store.Workspace) Stats {
	ws.Lock()
	defer ws.Unlock()
	return Stats{
		FilesUploaded:   ws.Context.Len(),
		ContextBytes:    ws.Context.TotalBytes(),
		Turns:           ws.Conversation.Len(),
		EstimatedTokens: ws.Conversation.CharCount(),
		Engine:          c.settings.Engine,
	}
}

func toMessages(turns []store.Turn) []llm.Message {
	msgs := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		if t.Synthetic {
			continue
		}
		role := llm.RoleUser
		if t.Role == store.RoleModel {
			role = llm.RoleModel
		}
		msgs = append(msgs, llm.Message{Role: role, Content: t.Text})
	}
	return msgs
}

func toAttachments(items []store.ContextItem) []llm.Attachment {
	out := make([]llm.Attachment, len(items))
	for i, item := range items {
		out[i] = llm.Attachment{
			Name:      item.Name,
			MediaType: item.MediaType,
			Payload:   item.Payload,
			IsText:    item.IsText,
		}
	}
	return out
}
