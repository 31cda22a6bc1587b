package domain

// Known keys of AgentResponse.Analysis.
const (
	AnalysisEarnings  = "earnings"
	AnalysisVehicle   = "vehicle"
	AnalysisFinancial = "financial"
)

// AgentRequest is the body of POST /agent/chat.
type AgentRequest struct {
	Query string `json:"query"`
}

// AgentResponse is the conversational agent's reply. Recommendations and
// Analysis vary in shape per query type and are kept as open maps.
type AgentResponse struct {
	Response        string           `json:"response"`
	Recommendations []map[string]any `json:"recommendations"`
	ActionItems     []string         `json:"action_items"`
	QueryType       string           `json:"query_type"`
	Analysis        map[string]any   `json:"analysis,omitempty"`
	AudioURL        *string          `json:"audio_url,omitempty"`
	Transcription   *string          `json:"transcription,omitempty"`
}
