package util

import (
	"reflect"
	"testing"
)

func TestCoalesce(t *testing.T) {
	if got := Coalesce("", "", "hello", "world"); got != "hello" {
		t.Errorf("expected 'hello', got %q", got)
	}
	if got := Coalesce(0, 0, 42); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if got := Coalesce("", ""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"single", []string{"a"}, []string{"a"}},
		{"comma separated", []string{"a,b, c"}, []string{"a", "b", "c"}},
		{"several args", []string{"a", "b,c"}, []string{"a", "b", "c"}},
		{"blanks dropped", []string{" , a,, "}, []string{"a"}},
		{"repeats dropped", []string{"a,b", "a"}, []string{"a", "b"}},
		{"empty", nil, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SplitList(tc.in...); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("SplitList(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestUnique(t *testing.T) {
	got := Unique([]int{3, 1, 3, 2, 1})
	if !reflect.DeepEqual(got, []int{3, 1, 2}) {
		t.Errorf("Unique = %v", got)
	}
}

func TestContains(t *testing.T) {
	if !Contains([]string{"a", "b"}, "b") {
		t.Error("expected Contains to find 'b'")
	}
	if Contains([]int{1, 2}, 3) {
		t.Error("expected Contains to miss 3")
	}
}
