package jsonutils

import "testing"

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"text":"hi","ids":[1]}`, `{"text":"hi","ids":[1]}`},
		{"fenced json", "Berikut:\n```json\n{\"text\":\"hi\"}\n```", `{"text":"hi"}`},
		{"plain fence", "```\n{\"ids\":[2]}\n```", `{"ids":[2]}`},
		{"surrounding prose", `Tentu! {"text":"ok"} semoga membantu`, `{"text":"ok"}`},
		{"trailing comma", `{"ids":[1,2,],}`, `{"ids":[1,2]}`},
		{"bom", "\uFEFF{\"text\":\"x\"}", `{"text":"x"}`},
		{"escaped quotes kept", `{"text":"kain \"sutra\""}`, `{"text":"kain \"sutra\""}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractJSON(tc.in); got != tc.want {
				t.Errorf("ExtractJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCompact(t *testing.T) {
	got := Compact([]map[string]int{{"id": 1}})
	if got != `[{"id":1}]` {
		t.Errorf("unexpected compact output: %s", got)
	}
	if got := Compact(make(chan int)); got != "[]" {
		t.Errorf("expected fallback for unserializable value, got %s", got)
	}
}
