package graph

import "testing"

func TestParseToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  Edge
		ok    bool
	}{
		{name: "full token", token: "205FS+3", want: Edge{PredID: 205, SuccID: 900, Type: FS, Lag: 3}, ok: true},
		{name: "lead without code", token: "130-2", want: Edge{PredID: 130, SuccID: 900, Type: FS, Lag: -2}, ok: true},
		{name: "bare id", token: "42", want: Edge{PredID: 42, SuccID: 900, Type: FS}, ok: true},
		{name: "lowercase code", token: "17ss", want: Edge{PredID: 17, SuccID: 900, Type: SS}, ok: true},
		{name: "ff with lag", token: "8FF+10", want: Edge{PredID: 8, SuccID: 900, Type: FF, Lag: 10}, ok: true},
		{name: "sf with lead", token: "9Sf-4", want: Edge{PredID: 9, SuccID: 900, Type: SF, Lag: -4}, ok: true},
		{name: "leading whitespace", token: "  12SS+1", want: Edge{PredID: 12, SuccID: 900, Type: SS, Lag: 1}, ok: true},
		{name: "space before code", token: "12 SS", want: Edge{PredID: 12, SuccID: 900, Type: SS}, ok: true},
		{name: "spaces inside lag", token: "31FS+ 5", want: Edge{PredID: 31, SuccID: 900, Type: FS, Lag: 5}, ok: true},
		{name: "sign without digits", token: "31FS+", want: Edge{PredID: 31, SuccID: 900, Type: FS}, ok: true},
		{name: "unknown code ignored", token: "31XY+2", want: Edge{PredID: 31, SuccID: 900, Type: FS, Lag: 2}, ok: true},
		{name: "leftmost sign wins", token: "4FS-2+7", want: Edge{PredID: 4, SuccID: 900, Type: FS, Lag: -2}, ok: true},
		{name: "lag with unit suffix", token: "4SS+3d", want: Edge{PredID: 4, SuccID: 900, Type: SS, Lag: 3}, ok: true},
		{name: "empty", token: "", ok: false},
		{name: "whitespace only", token: "   ", ok: false},
		{name: "letters first", token: "abcFS", ok: false},
		{name: "sign first", token: "+3", ok: false},
		{name: "overflowing id", token: "99999999999999999999999", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseToken(tt.token, 900)
			if ok != tt.ok {
				t.Fatalf("ParseToken(%q) ok = %v, want %v", tt.token, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseToken(%q) = %+v, want %+v", tt.token, got, tt.want)
			}
		})
	}
}

func TestParseTokens(t *testing.T) {
	edges := ParseTokens("205FS+3, 130-2;x; 7SS", 300)

	if len(edges) != 3 {
		t.Fatalf("expected 3 edges, got %d: %+v", len(edges), edges)
	}
	if edges[0].PredID != 205 || edges[0].Lag != 3 {
		t.Errorf("unexpected first edge %+v", edges[0])
	}
	if edges[1].PredID != 130 || edges[1].Lag != -2 {
		t.Errorf("unexpected second edge %+v", edges[1])
	}
	if edges[2].PredID != 7 || edges[2].Type != SS {
		t.Errorf("unexpected third edge %+v", edges[2])
	}
	for _, e := range edges {
		if e.SuccID != 300 {
			t.Errorf("expected successor 300, got %d", e.SuccID)
		}
	}
}

func TestParseTokens_Empty(t *testing.T) {
	if edges := ParseTokens("", 1); len(edges) != 0 {
		t.Errorf("expected no edges, got %v", edges)
	}
}

func TestRelType_TextRoundTrip(t *testing.T) {
	for _, rt := range []RelType{FS, SS, FF, SF} {
		b, _ := rt.MarshalText()
		var got RelType
		if err := got.UnmarshalText(b); err != nil {
			t.Fatalf("UnmarshalText(%s): %v", b, err)
		}
		if got != rt {
			t.Errorf("round trip %v -> %s -> %v", rt, b, got)
		}
	}
}
