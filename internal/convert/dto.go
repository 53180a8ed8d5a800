package convert

// TextRequest is the JSON body for direct text conversion.
type TextRequest struct {
	Text string `json:"text"`
}

// PreviewRequest is the JSON body for a voice preview.
type PreviewRequest struct {
	Voice string `json:"voice"`
	Text  string `json:"text,omitempty"`
}

// VoiceResponse describes one selectable voice.
type VoiceResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}
