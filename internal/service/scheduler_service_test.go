package service

import "testing"

func TestBuildDailySpec(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "08:00", want: "0 0 8 * * *"},
		{in: "23:59", want: "0 59 23 * * *"},
		{in: " 7:05 ", want: "0 5 7 * * *"},
		{in: "24:00", wantErr: true},
		{in: "08:60", wantErr: true},
		{in: "0800", wantErr: true},
	}
	for _, tc := range cases {
		got, err := buildDailySpec(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("buildDailySpec(%q) = %q, want error", tc.in, got)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("buildDailySpec(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}
