package analyze

import (
	"encoding/json"
	"strings"
	"testing"

	"contractscan/internal/model"
)

func TestParsePayload_Success(t *testing.T) {
	raw := `{"risks":[{"phrase":"X","level":"High","category":"Liability","explanation":"E","plainEnglish":"P"}]}`

	findings, outcome := ParsePayload(raw)
	if outcome != ParsedOK {
		t.Fatalf("expected ParsedOK, got %v", outcome)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}

	f := findings[0]
	if f.ID == "" {
		t.Error("expected a freshly generated non-empty id")
	}
	if f.Phrase != "X" || f.Level != model.LevelHigh || f.Category != "Liability" {
		t.Errorf("unexpected finding: %+v", f)
	}
	if f.Explanation != "E" || f.PlainEnglish != "P" {
		t.Errorf("unexpected finding: %+v", f)
	}
}

func TestParsePayload_UniqueIDs(t *testing.T) {
	raw := `{"risks":[
		{"phrase":"A","level":"High","category":"c","explanation":"e","plainEnglish":"p"},
		{"phrase":"B","level":"Low","category":"c","explanation":"e","plainEnglish":"p"}
	]}`

	findings, outcome := ParsePayload(raw)
	if outcome != ParsedOK {
		t.Fatalf("expected ParsedOK, got %v", outcome)
	}
	if findings[0].ID == findings[1].ID {
		t.Errorf("expected unique ids, both are %s", findings[0].ID)
	}
}

func TestParsePayload_Empty(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"blank payload", ""},
		{"whitespace payload", "  \n "},
		{"zero risks", `{"risks":[]}`},
		{"missing risks key", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings, outcome := ParsePayload(tt.raw)
			if outcome != ParsedEmpty {
				t.Errorf("expected ParsedEmpty, got %v", outcome)
			}
			if len(findings) != 0 {
				t.Errorf("expected zero findings, got %d", len(findings))
			}
		})
	}
}

func TestParsePayload_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "definitely not json"},
		{"wrong shape", `{"risks": "oops"}`},
		{"level outside enum", `{"risks":[{"phrase":"X","level":"Catastrophic","category":"c","explanation":"e","plainEnglish":"p"}]}`},
		{"empty phrase", `{"risks":[{"phrase":"","level":"High","category":"c","explanation":"e","plainEnglish":"p"}]}`},
		{"empty category", `{"risks":[{"phrase":"X","level":"High","category":"","explanation":"e","plainEnglish":"p"}]}`},
		{"empty explanation", `{"risks":[{"phrase":"X","level":"High","category":"c","explanation":"","plainEnglish":"p"}]}`},
		{"empty plain english", `{"risks":[{"phrase":"X","level":"High","category":"c","explanation":"e","plainEnglish":""}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings, outcome := ParsePayload(tt.raw)
			if outcome != ParseFailed {
				t.Errorf("expected ParseFailed, got %v", outcome)
			}
			if len(findings) != 0 {
				t.Errorf("malformed payload must yield zero findings, got %d", len(findings))
			}
		})
	}
}

func TestResponseSchema_Shape(t *testing.T) {
	raw, err := json.Marshal(ResponseSchema())
	if err != nil {
		t.Fatalf("marshal schema: %v", err)
	}

	schema := string(raw)
	for _, want := range []string{
		`"risks"`, `"phrase"`, `"level"`, `"category"`, `"explanation"`, `"plainEnglish"`,
		`"High"`, `"Medium"`, `"Low"`,
	} {
		if !strings.Contains(schema, want) {
			t.Errorf("schema missing %s: %s", want, schema)
		}
	}

	var node SchemaNode
	if err := json.Unmarshal(raw, &node); err != nil {
		t.Fatalf("schema does not round-trip: %v", err)
	}
	items := node.Properties["risks"].Items
	if items == nil || len(items.Required) != 5 {
		t.Errorf("expected all five finding fields required, got %+v", items)
	}
}

func TestTruncateContract(t *testing.T) {
	text := strings.Repeat("a", 20)

	got, truncated := TruncateContract(text, 10)
	if !truncated || got != strings.Repeat("a", 10) {
		t.Errorf("expected truncation to 10 chars, got %q (truncated=%v)", got, truncated)
	}

	got, truncated = TruncateContract(text, 30)
	if truncated || got != text {
		t.Errorf("short text must pass through unchanged, got %q (truncated=%v)", got, truncated)
	}

	// Multi-byte text must never be split mid-rune.
	got, truncated = TruncateContract("日本語のテキスト", 3)
	if !truncated || got != "日本語" {
		t.Errorf("expected rune-aware truncation, got %q", got)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("some contract text")

	for _, want := range []string{"some contract text", "High", "plainEnglish", "empty risks array"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
