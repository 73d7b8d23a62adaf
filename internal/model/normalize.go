package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Fields is a loosely typed JSON object as sent by the client.
type Fields map[string]json.RawMessage

// DecodeFields parses a request body into Fields. An empty body yields no fields.
func DecodeFields(body []byte) (Fields, error) {
	f := Fields{}
	if len(bytes.TrimSpace(body)) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(body, &f); err != nil {
		return nil, err
	}
	if f == nil {
		f = Fields{}
	}
	return f, nil
}

// String returns the trimmed string value of key, or "" when absent or not a string.
func (f Fields) String(key string) string {
	raw, ok := f[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// Context extracts the coaching context shared by chat and analyze.
func (f Fields) Context() CoachingContext {
	return CoachingContext{
		ConversationType: f.String("conversation"),
		Feeling:          f.String("feeling"),
		FocusPoints:      NormalizeFocus(f["focus"]),
	}
}

// DecodeChatRequest builds a ChatRequest. It never fails.
func DecodeChatRequest(f Fields) ChatRequest {
	return ChatRequest{
		UserText: f.String("user_text"),
		Context:  f.Context(),
	}
}

// DecodeAnalysisRequest builds an AnalysisRequest. It never fails.
func DecodeAnalysisRequest(f Fields) AnalysisRequest {
	return AnalysisRequest{
		Context: f.Context(),
		Turns:   NormalizeTurns(f["turns"]),
	}
}

// NormalizeFocus accepts a JSON list, a string holding a JSON-encoded list, or nothing,
// and returns the string elements in order. Anything malformed yields an empty list.
func NormalizeFocus(raw json.RawMessage) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return []string{}
	}
	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return []string{}
		}
		raw = bytes.TrimSpace([]byte(encoded))
	}
	return stringList(raw)
}

// stringList decodes raw as a JSON array, keeping only string elements.
func stringList(raw []byte) []string {
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// NormalizeTurns keeps the first MaxTurns entries, coerces roles to user/assistant and
// drops entries without text. Order is preserved.
func NormalizeTurns(raw json.RawMessage) []ConversationTurn {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return []ConversationTurn{}
	}
	if len(entries) > MaxTurns {
		entries = entries[:MaxTurns]
	}

	turns := make([]ConversationTurn, 0, len(entries))
	for _, entry := range entries {
		var f Fields
		if err := json.Unmarshal(entry, &f); err != nil || f == nil {
			continue
		}
		text := f.String("text")
		if text == "" {
			continue
		}
		turns = append(turns, ConversationTurn{
			Role: NormalizeRole(f.String("role")),
			Text: text,
		})
	}
	return turns
}

// NormalizeRole maps any role other than user/assistant to user.
func NormalizeRole(role string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(role))) {
	case RoleAssistant:
		return RoleAssistant
	default:
		return RoleUser
	}
}
