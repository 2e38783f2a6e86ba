package assistant

import (
	"encoding/json"
	"errors"
	"fmt"
	"iruka/iruka/utils/jsonutils"
	"math"
	"strings"
)

var ErrMalformedReply = errors.New("assistant: model reply is not a JSON object")

// Reply is the resolver's answer to one utterance. FabricIDs is never nil.
type Reply struct {
	Text      string `json:"text"`
	FabricIDs []int  `json:"fabricIds"`
}

func textReply(text string) Reply {
	return Reply{Text: text, FabricIDs: []int{}}
}

// Message converts the reply into the assistant turn stored in the transcript.
func (r Reply) Message() ChatMessage {
	m := ChatMessage{Role: RoleAssistant, Content: r.Text}
	if len(r.FabricIDs) > 0 {
		m.FabricIDs = append([]int(nil), r.FabricIDs...)
	}
	return m
}

// ParseReply decodes the model's {"text": ..., "ids": [...]} payload and fills
// defaults: a missing, empty or non-string text becomes followUp, a missing or
// non-array ids becomes empty, and non-integer ids are skipped. Output that is
// not a JSON object, even after extracting a fenced block, is an error.
func ParseReply(raw, followUp string) (Reply, error) {
	fields, err := decodeObject(raw)
	if err != nil {
		return Reply{}, err
	}

	reply := textReply(followUp)
	var text string
	if err := json.Unmarshal(fields["text"], &text); err == nil && strings.TrimSpace(text) != "" {
		reply.Text = text
	}

	var ids []json.RawMessage
	if err := json.Unmarshal(fields["ids"], &ids); err == nil {
		for _, rawID := range ids {
			if id, ok := parseID(rawID); ok {
				reply.FabricIDs = append(reply.FabricIDs, id)
			}
		}
	}
	return reply, nil
}

func decodeObject(raw string) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	err := json.Unmarshal([]byte(raw), &fields)
	if err != nil {
		err = json.Unmarshal([]byte(jsonutils.ExtractJSON(raw)), &fields)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if fields == nil {
		return nil, ErrMalformedReply
	}
	return fields, nil
}

func parseID(raw json.RawMessage) (int, bool) {
	var v *float64
	if err := json.Unmarshal(raw, &v); err != nil || v == nil {
		return 0, false
	}
	f := *v
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}
