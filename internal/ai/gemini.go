package ai

// Wire types for the Gemini generateContent REST endpoint.

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType   string   `json:"responseMimeType,omitempty"`
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

// jsonConfig asks the text model for a bare JSON document.
func jsonConfig() *generationConfig {
	return &generationConfig{ResponseMimeType: "application/json"}
}

// imageConfig asks the image model to return inline image parts alongside text.
func imageConfig() *generationConfig {
	return &generationConfig{ResponseModalities: []string{"TEXT", "IMAGE"}}
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

type generateResponse struct {
	Candidates     []candidate `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason,omitempty"`
	} `json:"promptFeedback,omitempty"`
}

// text concatenates the text parts of the first candidate.
func (r *generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var out string
	for _, p := range r.Candidates[0].Content.Parts {
		out += p.Text
	}
	return out
}

// firstImage returns the first inline binary part of the first candidate.
func (r *generateResponse) firstImage() *inlineData {
	if len(r.Candidates) == 0 {
		return nil
	}
	for _, p := range r.Candidates[0].Content.Parts {
		if p.InlineData != nil && p.InlineData.Data != "" {
			return p.InlineData
		}
	}
	return nil
}

type apiErrorDetail struct {
	Type   string `json:"@type,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type apiError struct {
	Error *struct {
		Code    int              `json:"code"`
		Message string           `json:"message"`
		Status  string           `json:"status"`
		Details []apiErrorDetail `json:"details,omitempty"`
	} `json:"error"`
}
