package constant

// Transcript texts shown to the user
const (
	GreetingMessage        = "I'm ready to build. Upload your assets or describe your app/game, and I will generate the complete, functional code for you to preview immediately."
	GenerationErrorMessage = "Error generating project. Please check console for details."
	EmptyResponseMessage   = "No response generated."
)

// SystemInstructionV1 biases the model toward one self-contained preview block.
// The %s verb receives the preview fence tag.
const SystemInstructionV1 = `You are a world-class Full Stack Engineer and Game Developer.
CRITICAL: You MUST provide the full, complete source code. Do not describe it; write it.
For the user to see a real preview, you MUST include one block of code wrapped in ` + "```%s" + ` that contains a standalone, functional version of the app/game (including CSS and JS inline).
Label this block clearly or ensure it is the main block.
Refer to any uploaded files (images, docs, etc.) provided in the context.
If the user asks for a game, use Phaser, Three.js, or vanilla Canvas as needed.
ALWAYS prioritize providing executable code over explanations.`

// PreviewSandboxPolicy isolates the served preview from the host origin
const PreviewSandboxPolicy = "sandbox allow-scripts allow-modals allow-forms allow-popups"

// Workspace event kinds
const (
	EventTurnDispatched      = "turn.dispatched"
	EventGenerationCompleted = "generation.completed"
	EventGenerationFailed    = "generation.failed"
	EventContextChanged      = "context.changed"
	EventViewChanged         = "view.changed"
)

// WorkspaceUpdatedTopic is the in-process bus topic feeding websocket clients
const WorkspaceUpdatedTopic = "workspace.updated"

// WorkspaceRoutePrefix groups every workspace route under /api
const WorkspaceRoutePrefix = "/workspace/v1"
