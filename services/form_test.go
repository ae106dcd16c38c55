package services

import (
	"encoding/json"
	"testing"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		raw       string
		want      int
		wantParse bool
		wantCount bool
	}{
		{`23`, 23, true, true},
		{`"23"`, 23, true, true},
		{`""`, 0, true, true},
		{`null`, 0, true, true},
		{`2147483647`, 2147483647, true, true},
		{`2147483648`, 0, true, false},
		{`1e20`, 0, true, false},
		{`2.5`, 0, true, false},
		{`-1`, 0, true, false},
		{`"NaN"`, 0, false, false},
		{`"+Inf"`, 0, false, false},
		{`"abc"`, 0, false, false},
	}
	for _, tt := range tests {
		var n number
		err := json.Unmarshal([]byte(tt.raw), &n)
		if (err == nil) != tt.wantParse {
			t.Errorf("%s: parse error %v, want parse=%v", tt.raw, err, tt.wantParse)
			continue
		}
		if err != nil {
			continue
		}
		got, err := n.Count("jersey_no")
		if (err == nil) != tt.wantCount {
			t.Errorf("%s: count error %v, want ok=%v", tt.raw, err, tt.wantCount)
			continue
		}
		if err != nil {
			if _, ok := err.(*InputError); !ok {
				t.Errorf("%s: expected InputError, got %T", tt.raw, err)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.raw, got, tt.want)
		}
	}
}
