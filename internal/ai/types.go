// ABOUTME: Wire types for the generateContent request and response.
// ABOUTME: Only the fields this client reads or writes are modeled.

package ai

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type tool struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

type generateRequest struct {
	Contents          []content        `json:"contents"`
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	GenerationConfig  generationConfig `json:"generationConfig"`
	Tools             []tool           `json:"tools,omitempty"`
}

type webRef struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

type groundingRef struct {
	Web *webRef `json:"web"`
}

type groundingMetadata struct {
	GroundingAttributions []groundingRef `json:"groundingAttributions"`
	GroundingChunks       []groundingRef `json:"groundingChunks"`
}

type candidate struct {
	Content           *content           `json:"content"`
	GroundingMetadata *groundingMetadata `json:"groundingMetadata"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}
