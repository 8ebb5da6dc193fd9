package models

import "strings"

// GaneshaResponse is the structured answer returned for every request.
// The model is instructed to emit exactly this JSON shape; when it fails to,
// one of the fallback constructors below produces a refusal instead. Either
// way the caller always receives a complete object with a non-empty answer.
type GaneshaResponse struct {
	Lang          string `json:"lang"`
	BlessingOpen  string `json:"blessing_open"`
	Answer        string `json:"answer"`
	BlessingClose string `json:"blessing_close"`
	Refusal       bool   `json:"refusal"`
	RefusalReason string `json:"refusal_reason"`
}

// Fallback texts. These are fixed strings, not templates - the frontend and
// the TTS path both rely on them being stable.
const (
	modelUnavailableAnswer = "I apologize, my connection to the divine consciousness is currently unavailable. Please try again later."
	parseFailureAnswer     = "I heard your words, but my thoughts are unclear at this moment. Please rephrase your question, and I shall try again to offer guidance."
	generationFailedAnswer = "I apologize, I could not gather my thoughts just now. Please ask your question once more."
	emptyAudioAnswer       = "I am sorry, I could not hear anything in your message. Please speak clearly."
)

// NewModelUnavailableResponse is returned when the generation engine never
// loaded. This is a per-request surface for a fatal process condition.
func NewModelUnavailableResponse() GaneshaResponse {
	return GaneshaResponse{
		Lang:          "en",
		Answer:        modelUnavailableAnswer,
		Refusal:       true,
		RefusalReason: "model not loaded",
	}
}

// NewParseFailureResponse is returned when the model output contained no
// JSON object, or the extracted object failed validation.
func NewParseFailureResponse() GaneshaResponse {
	return GaneshaResponse{
		Lang:          "en",
		Answer:        parseFailureAnswer,
		Refusal:       true,
		RefusalReason: "LLM output was not valid JSON or could not be parsed",
	}
}

// NewGenerationFailedResponse is returned when the generation call itself
// failed (transport error, engine crash). Distinct from a parse failure so
// the reason is honest in logs and API responses.
func NewGenerationFailedResponse() GaneshaResponse {
	return GaneshaResponse{
		Lang:          "en",
		Answer:        generationFailedAnswer,
		Refusal:       true,
		RefusalReason: "generation failed",
	}
}

// NewEmptyTranscriptionResponse is returned when speech-to-text produced no
// text at all, before the pipeline is ever invoked.
func NewEmptyTranscriptionResponse() GaneshaResponse {
	return GaneshaResponse{
		Lang:          "en",
		Answer:        emptyAudioAnswer,
		Refusal:       true,
		RefusalReason: "Empty transcription",
	}
}

// SpokenText is the text handed to speech synthesis: the blessings wrap the
// answer when present, refusals speak the apology alone.
func (r GaneshaResponse) SpokenText() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{r.BlessingOpen, r.Answer, r.BlessingClose} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
