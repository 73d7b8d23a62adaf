package ai

import (
	"strings"

	"github.com/nikhilupadhyay26/voiceaipractice/internal/model"
)

const coachSystemPrompt = "You are an empathetic, practical career coach. " +
	"Goal: help the user prepare for a manager conversation (appraisals, promotion, feedback, conflict, etc.). " +
	"Reply concisely in 4–7 short bullet points max. " +
	"Start with one validating line, then actionable steps tailored to the user's input. " +
	"Avoid therapy/medical/legal advice; focus on workplace communication, de-escalation, and structure. " +
	"If conflict or misbehavior is involved, emphasize safety, accountability, and professional next steps. " +
	"Keep tone calm, non-judgmental, solution-oriented."

const analysisSystemPrompt = `You are an expert communication coach. Analyze the conversation and return STRICT JSON only.
Use 0-10 integer scores. Keep bullets short (≤12 words). No text outside JSON.
JSON schema:
{
  "scores": {"clarity":int,"assertiveness":int,"empathy":int,"structure":int},
  "summary": "one-sentence overview",
  "highlights": [ "bullet", ... ],
  "improvements": [ "bullet", ... ],
  "next_steps": [ "bullet", ... ],
  "rationale": "120-180 words",
  "what_went_well_desc": "2-4 sentences",
  "what_to_improve_desc": "2-4 sentences",
  "next_steps_desc": "2-4 sentences"
}
`

// BuildChatPrompt builds the system and user messages for a coaching reply
func BuildChatPrompt(req model.ChatRequest) (string, string) {
	var b strings.Builder
	b.WriteString("Context:\n")
	b.WriteString(contextBlock(req.Context))
	b.WriteString("\n\nUser said:\n")
	b.WriteString(req.UserText)
	b.WriteString("\n\nGive a concise, tailored coaching response.")
	return coachSystemPrompt, b.String()
}

// BuildAnalysisPrompt builds the system and user messages for a conversation analysis.
// Turns are rendered one per line as "role> text" with inner newlines flattened.
func BuildAnalysisPrompt(req model.AnalysisRequest) (string, string) {
	var b strings.Builder
	b.WriteString("Context:\n")
	b.WriteString(contextBlock(req.Context))
	b.WriteString("\n\nConversation turns (chronological, compact):\n")
	if len(req.Turns) == 0 {
		b.WriteString("(no turns)")
	}
	for i, t := range req.Turns {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(t.Role))
		b.WriteString("> ")
		b.WriteString(strings.ReplaceAll(t.Text, "\n", " "))
	}
	b.WriteString("\n\nReturn STRICT JSON only (no backticks, no prose).")
	return analysisSystemPrompt, b.String()
}

// contextBlock renders only the context lines that are present, or "(none)".
func contextBlock(c model.CoachingContext) string {
	if c.IsEmpty() {
		return "(none)"
	}
	var lines []string
	if c.ConversationType != "" {
		lines = append(lines, "Meeting type: "+c.ConversationType)
	}
	if c.Feeling != "" {
		lines = append(lines, "User feeling: "+c.Feeling)
	}
	if len(c.FocusPoints) > 0 {
		lines = append(lines, "Focus points: "+strings.Join(c.FocusPoints, "; "))
	}
	return strings.Join(lines, "\n")
}
