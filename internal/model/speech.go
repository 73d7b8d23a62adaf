package model

// TranscriptionResult is the response of the transcribe operation.
type TranscriptionResult struct {
	Text string `json:"text"`
}

// SynthesisRequest is the body of POST /tts.
type SynthesisRequest struct {
	Text string `json:"text"`
}

// SynthesisResult locates a generated waveform relative to the server root.
type SynthesisResult struct {
	URL string `json:"url"`
}
