package generator

// Result is one completed generation.
type Result struct {
	Text  string // first choice content, trimmed; may be empty
	Model string // model that served the request
	Raw   []byte // response body as received
}

// API request/response types for OpenAI-compatible chat completions.

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Error   *apiError    `json:"error,omitempty"`
}

type chatChoice struct {
	Message responseMessage `json:"message"`
}

// responseMessage allows a null content field.
type responseMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}
