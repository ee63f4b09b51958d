package model

import (
	"testing"
	"time"
)

func TestMapPriority(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"urgent", PriorityHigh},
		{"standard", PriorityMedium},
		{"low-priority", PriorityLow},
		{"URGENT", PriorityHigh},
		{"  standard  ", PriorityMedium},
		{"high", PriorityHigh},
		{"low", PriorityLow},
		{"", PriorityMedium},
		{"whatever", PriorityMedium},
	}
	for _, tc := range cases {
		if got := MapPriority(tc.in); got != tc.want {
			t.Errorf("MapPriority(%q): got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidEnums(t *testing.T) {
	for _, v := range []string{PriorityHigh, PriorityMedium, PriorityLow} {
		if !ValidPriority(v) {
			t.Errorf("ValidPriority(%q) = false", v)
		}
	}
	if ValidPriority("urgent") {
		t.Error("semantic choice accepted as stored priority")
	}
	for _, v := range []string{StatusOpen, StatusInProgress, StatusUrgent, StatusClosed} {
		if !ValidStatus(v) {
			t.Errorf("ValidStatus(%q) = false", v)
		}
	}
	if ValidStatus("open") {
		t.Error("lowercase status accepted")
	}
}

func TestJoinSplitList(t *testing.T) {
	cases := []struct {
		name   string
		in     []string
		joined string
		back   []string
	}{
		{"plain", []string{"T-a", "T-b"}, "T-a,T-b", []string{"T-a", "T-b"}},
		{"blank entries dropped", []string{" T-a ", "", "T-b"}, "T-a,T-b", []string{"T-a", "T-b"}},
		{"empty", []string{}, "", []string{}},
	}
	for _, tc := range cases {
		joined := JoinList(tc.in)
		if joined != tc.joined {
			t.Errorf("%s: JoinList got %q, want %q", tc.name, joined, tc.joined)
		}
		back := SplitList(joined)
		if len(back) != len(tc.back) {
			t.Errorf("%s: SplitList got %v, want %v", tc.name, back, tc.back)
			continue
		}
		for i := range back {
			if back[i] != tc.back[i] {
				t.Errorf("%s: SplitList got %v, want %v", tc.name, back, tc.back)
				break
			}
		}
	}
}

func TestSplitListNeverNil(t *testing.T) {
	if SplitList("") == nil {
		t.Error("SplitList of empty column returned nil, want empty slice")
	}
}

func TestCommentsRoundTrip(t *testing.T) {
	in := []Comment{
		{Author: "a@b.com", Content: "first", Timestamp: time.Unix(1700000000, 0).UTC()},
		{Author: "admin@b.com", Content: "second, with comma", Timestamp: time.Unix(1700000100, 0).UTC()},
	}
	s, err := MarshalComments(in)
	if err != nil {
		t.Fatalf("MarshalComments: %v", err)
	}
	out := UnmarshalComments(s)
	if len(out) != len(in) {
		t.Fatalf("round trip length: got %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i].Author != in[i].Author || out[i].Content != in[i].Content || !out[i].Timestamp.Equal(in[i].Timestamp) {
			t.Errorf("comment %d: got %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestCommentsEmptyAndCorrupt(t *testing.T) {
	s, err := MarshalComments(nil)
	if err != nil {
		t.Fatalf("MarshalComments(nil): %v", err)
	}
	if s != "" {
		t.Errorf("empty list serialized to %q, want empty string", s)
	}
	if got := UnmarshalComments(""); len(got) != 0 || got == nil {
		t.Errorf("UnmarshalComments(\"\"): got %v, want empty slice", got)
	}
	if got := UnmarshalComments("{not json"); len(got) != 0 || got == nil {
		t.Errorf("corrupt column: got %v, want empty slice", got)
	}
}
