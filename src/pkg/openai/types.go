package openai

type InputRole string

const (
	RoleDeveloper InputRole = "developer"
	RoleUser      InputRole = "user"
)

type Effort string

const (
	EffortMinimal Effort = "minimal"
	EffortLow     Effort = "low"
	EffortMedium  Effort = "medium"
	EffortHigh    Effort = "high"
)

// Request holds the parts of a Responses API request the callers control.
// Store/Background are always set by SendPrompt.
type Request struct {
	APIKey          string       `json:"-"`
	Model           string       `json:"model"`
	Instructions    string       `json:"instructions"`
	MaxOutputTokens *int         `json:"max_output_tokens,omitempty"`
	Input           []InputItem  `json:"input"`
	Reasoning       *Reasoning   `json:"reasoning,omitempty"`
	Text            *TextOptions `json:"text,omitempty"`
}

// InputItem is the simplest message shape the Responses API accepts:
// [{"role":"user","content":"..."}] or content as a list of typed parts.
type InputItem struct {
	Role    InputRole `json:"role"`
	Content any       `json:"content"`
}

type Reasoning struct {
	Effort *Effort `json:"effort,omitempty"`
}

// TextOptions configures output formatting.
// "text": { "format": { "type": "json_schema", "name": ..., "schema": {...}, "strict": true } }
type TextOptions struct {
	Format TextFormat `json:"format"`
}

type TextFormat struct {
	Type   string         `json:"type"`             // "text" | "json_object" | "json_schema"
	Name   string         `json:"name,omitempty"`   // required for json_schema
	Schema map[string]any `json:"schema,omitempty"` // required for json_schema
	Strict *bool          `json:"strict,omitempty"`
}

type requestPayload struct {
	Request
	Store      bool `json:"store,omitempty"`
	Background bool `json:"background,omitempty"`
}

// ----- Response types we parse -----

type responseObject struct {
	ID     string       `json:"id"`
	Model  string       `json:"model"`
	Status string       `json:"status"` // "completed", "in_progress", "failed", etc.
	Output []outputItem `json:"output"`
	Usage  *usageBlock  `json:"usage,omitempty"`
	Error  any          `json:"error,omitempty"`
}

type outputItem struct {
	Type    string        `json:"type"` // "message" or tool events
	Content []contentItem `json:"content,omitempty"`
}

type contentItem struct {
	Type string `json:"type"`           // "output_text"
	Text string `json:"text,omitempty"` // set when type == "output_text"
}

type usageBlock struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// RunMetadata records how a response was produced.
type RunMetadata struct {
	ResponseID  string `json:"response_id"`
	Model       string `json:"model"`
	Status      string `json:"status"`
	TokensIn    int    `json:"tokens_in"`
	TokensOut   int    `json:"tokens_out"`
	TokensTotal int    `json:"tokens_total"`
	ElapsedMs   int64  `json:"elapsed"`
}
