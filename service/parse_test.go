package service

import (
	"errors"
	"testing"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "bare object",
			raw:  `{"lang":"en"}`,
			want: `{"lang":"en"}`,
		},
		{
			name: "object wrapped in prose",
			raw:  "Here is my answer:\n{\"lang\":\"en\"}\nI hope that helps.",
			want: `{"lang":"en"}`,
		},
		{
			name: "nested braces kept intact",
			raw:  `prefix {"a":{"b":"c"}} suffix`,
			want: `{"a":{"b":"c"}}`,
		},
		{
			name:    "no braces at all",
			raw:     "Om Gam Ganapataye Namaha, dear child.",
			wantErr: true,
		},
		{
			name:    "only opening brace",
			raw:     `{"lang":"en"`,
			wantErr: true,
		},
		{
			name:    "closing before opening",
			raw:     `} nonsense {`,
			wantErr: true,
		},
		{
			name:    "empty string",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrNoJSONObject) {
					t.Fatalf("expected ErrNoJSONObject, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStripControlChars(t *testing.T) {
	in := "{\"answer\":\"line one\nline two\t\rend\x00\"}"
	got := StripControlChars(in)
	want := `{"answer":"line oneline twoend"}`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStripControlChars_PreservesNonASCII(t *testing.T) {
	in := `{"answer":"गणेश जी की जय"}`
	if got := StripControlChars(in); got != in {
		t.Errorf("multibyte text was altered: %q", got)
	}
}

func TestParseGaneshaResponse_RoundTripIdentity(t *testing.T) {
	raw := `{"lang":"en","blessing_open":"Om Gam Ganapataye Namaha","answer":"The mouse Mushika carries me everywhere.","blessing_close":"Jai Ganesh","refusal":false,"refusal_reason":""}`

	resp, err := ParseGaneshaResponse(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if resp.Lang != "en" {
		t.Errorf("lang = %q", resp.Lang)
	}
	if resp.BlessingOpen != "Om Gam Ganapataye Namaha" {
		t.Errorf("blessing_open = %q", resp.BlessingOpen)
	}
	if resp.Answer != "The mouse Mushika carries me everywhere." {
		t.Errorf("answer = %q", resp.Answer)
	}
	if resp.BlessingClose != "Jai Ganesh" {
		t.Errorf("blessing_close = %q", resp.BlessingClose)
	}
	if resp.Refusal {
		t.Error("refusal should be false")
	}
	if resp.RefusalReason != "" {
		t.Errorf("refusal_reason = %q", resp.RefusalReason)
	}
}

func TestParseGaneshaResponse_EmbeddedControlChars(t *testing.T) {
	// A literal newline inside a string value breaks strict JSON parsing;
	// sanitization must recover the intended field values.
	raw := "{\"lang\":\"en\",\"blessing_open\":\"Om\",\"answer\":\"Blessings upon\n you, child.\",\"blessing_close\":\"Jai Ganesh\",\"refusal\":false,\"refusal_reason\":\"\"}"

	resp, err := ParseGaneshaResponse(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if resp.Answer != "Blessings upon you, child." {
		t.Errorf("answer = %q", resp.Answer)
	}
	if resp.Refusal {
		t.Error("refusal should be false")
	}
}

func TestParseGaneshaResponse_NoBraces(t *testing.T) {
	_, err := ParseGaneshaResponse("I am sorry, I cannot answer in JSON today.")
	if !errors.Is(err, ErrNoJSONObject) {
		t.Fatalf("expected ErrNoJSONObject, got %v", err)
	}
}

func TestParseGaneshaResponse_MalformedJSON(t *testing.T) {
	_, err := ParseGaneshaResponse(`{"lang":"en","answer":`)
	if err == nil {
		t.Fatal("expected an error for truncated JSON")
	}
}

func TestParseGaneshaResponse_EmptyAnswerRejected(t *testing.T) {
	raw := `{"lang":"en","blessing_open":"Om","answer":"","blessing_close":"","refusal":false,"refusal_reason":""}`
	_, err := ParseGaneshaResponse(raw)
	if !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestParseGaneshaResponse_ProseWrappedObject(t *testing.T) {
	raw := "Certainly! Here is the response you asked for:\n```json\n" +
		`{"lang":"hi","blessing_open":"ॐ","answer":"मूषक मेरी सवारी है।","blessing_close":"जय गणेश","refusal":false,"refusal_reason":""}` +
		"\n```"

	resp, err := ParseGaneshaResponse(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if resp.Lang != "hi" {
		t.Errorf("lang = %q", resp.Lang)
	}
	if resp.Answer == "" {
		t.Error("answer should not be empty")
	}
}
