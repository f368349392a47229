package normalize

import (
	jsoniter "github.com/json-iterator/go"
)

// envelope enumerates every top-level field the upstream APIs have been seen
// to use. Every field stays raw: providers disagree on their types, and one
// odd field must not hide a usable sibling.
type envelope struct {
	Choices jsoniter.RawMessage `json:"choices"`
	Content jsoniter.RawMessage `json:"content"`
	Data    jsoniter.RawMessage `json:"data"`
	Images  jsoniter.RawMessage `json:"images"`
	B64JSON jsoniter.RawMessage `json:"b64_json"`
	Image   jsoniter.RawMessage `json:"image"`
	Base64  jsoniter.RawMessage `json:"base64"`
}

// choice is the flattened first entry of choices[]. Fields of the wrong type
// are left empty.
type choice struct {
	Content jsoniter.RawMessage
	Images  jsoniter.RawMessage
	Text    jsoniter.RawMessage
}

// part is one entry of a result array or of a multimodal message content array.
type part struct {
	Type     jsoniter.RawMessage `json:"type"`
	Text     jsoniter.RawMessage `json:"text"`
	URL      jsoniter.RawMessage `json:"url"`
	ImageURL jsoniter.RawMessage `json:"image_url"`
	B64JSON  jsoniter.RawMessage `json:"b64_json"`
	Base64   jsoniter.RawMessage `json:"base64"`
	Image    jsoniter.RawMessage `json:"image"`
	Data     jsoniter.RawMessage `json:"data"`
	MIME     jsoniter.RawMessage `json:"mime_type"`
}

func decodeEnvelope(raw []byte) (envelope, bool) {
	var env envelope
	if err := jsoniter.Unmarshal(raw, &env); err != nil {
		return envelope{}, false
	}
	return env, true
}

func (e envelope) firstChoice() (choice, bool) {
	var items []jsoniter.RawMessage
	if len(e.Choices) == 0 || jsoniter.Unmarshal(e.Choices, &items) != nil || len(items) == 0 {
		return choice{}, false
	}

	var entry struct {
		Message jsoniter.RawMessage `json:"message"`
		Text    jsoniter.RawMessage `json:"text"`
	}
	if jsoniter.Unmarshal(items[0], &entry) != nil {
		return choice{}, false
	}

	var msg struct {
		Content jsoniter.RawMessage `json:"content"`
		Images  jsoniter.RawMessage `json:"images"`
	}
	if len(entry.Message) > 0 {
		_ = jsoniter.Unmarshal(entry.Message, &msg)
	}
	return choice{Content: msg.Content, Images: msg.Images, Text: entry.Text}, true
}

// asString reports whether raw is a non-empty JSON string.
func asString(raw jsoniter.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := jsoniter.Unmarshal(raw, &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}

// asParts decodes a JSON array of objects, skipping entries that are not objects.
func asParts(raw jsoniter.RawMessage) []part {
	if len(raw) == 0 {
		return nil
	}
	var items []jsoniter.RawMessage
	if err := jsoniter.Unmarshal(raw, &items); err != nil {
		return nil
	}
	parts := make([]part, 0, len(items))
	for _, item := range items {
		var p part
		if err := jsoniter.Unmarshal(item, &p); err != nil {
			continue
		}
		parts = append(parts, p)
	}
	return parts
}
