package http

// AnalyzeRequest is the JSON body of POST /api/analyze. Older form builds
// send the text as "message".
type AnalyzeRequest struct {
	UserInput string `json:"userInput"`
	Message   string `json:"message"`
}

func (r AnalyzeRequest) Text() string {
	if r.UserInput != "" {
		return r.UserInput
	}
	return r.Message
}

// AnalyzeResponse is the JSON shape returned by POST /api/analyze.
type AnalyzeResponse struct {
	CardName       string `json:"card_name"`
	Interpretation string `json:"interpretation"`
	ImageURL       string `json:"image_url"`
	Warning        string `json:"warning,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
