package scoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// NormalizeDetail turns a non-2xx body into one display message.
//
// A "detail" list of {loc, msg} entries becomes "field: msg; field: msg"
// where field is the last loc element. A non-empty "detail" string is used
// verbatim and any other JSON value is shown as compact JSON. Anything else,
// including a body that is not JSON, yields MessageFailed. The second return
// value reports whether the list form was found.
func NormalizeDetail(body []byte) (string, bool) {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&envelope); err != nil {
		return MessageFailed, false
	}

	raw := bytes.TrimSpace(envelope.Detail)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return MessageFailed, false
	}

	switch raw[0] {
	case '[':
		msg := joinIssues(raw)
		if msg == "" {
			return MessageFailed, false
		}
		return msg, true
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || strings.TrimSpace(s) == "" {
			return MessageFailed, false
		}
		return s, false
	default:
		var compact bytes.Buffer
		if err := json.Compact(&compact, raw); err != nil {
			return MessageFailed, false
		}
		return compact.String(), false
	}
}

func joinIssues(raw json.RawMessage) string {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return ""
	}

	parts := make([]string, 0, len(items))
	for _, item := range items {
		if part := formatIssue(item); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "; ")
}

func formatIssue(item json.RawMessage) string {
	item = bytes.TrimSpace(item)
	if len(item) == 0 {
		return ""
	}

	if item[0] == '"' {
		var s string
		if json.Unmarshal(item, &s) == nil {
			return s
		}
		return ""
	}

	var issue ValidationIssue
	dec := json.NewDecoder(bytes.NewReader(item))
	dec.UseNumber()
	if err := dec.Decode(&issue); err != nil || issue.Msg == "" {
		var compact bytes.Buffer
		if json.Compact(&compact, item) != nil {
			return ""
		}
		return compact.String()
	}

	if len(issue.Loc) == 0 {
		return issue.Msg
	}
	return fmt.Sprintf("%v: %s", issue.Loc[len(issue.Loc)-1], issue.Msg)
}
