package pdb

import "testing"

func TestMatchLAN_Substring(t *testing.T) {
	cases := []struct {
		name    string
		filters []string
		want    bool
	}{
		{"AMS-IX", []string{"ams"}, true},
		{"AMS-IX Hong Kong", []string{"ams"}, true},
		{"DE-CIX Frankfurt", []string{"ams"}, false},
		{"DE-CIX Frankfurt", []string{"ams", "de-cix"}, true},
		{"LINX LON1", []string{"linx lon1"}, true},
		{"LINX LON1", nil, true},
		{"LINX LON1", []string{""}, false},
		{"LINX LON1", []string{"  linx  "}, true},
	}
	for _, c := range cases {
		if got := MatchLAN(c.name, c.filters, false); got != c.want {
			t.Errorf("MatchLAN(%q, %v, exact=false) = %v, want %v", c.name, c.filters, got, c.want)
		}
	}
}

func TestMatchLAN_Exact(t *testing.T) {
	cases := []struct {
		name    string
		filters []string
		want    bool
	}{
		{"AMS-IX", []string{"ams-ix"}, true},
		{"AMS-IX Hong Kong", []string{"ams-ix"}, false},
		{"AMS-IX Caribbean", []string{"ams-ix"}, false},
		{"ams-ix", []string{"AMS-IX"}, true},
	}
	for _, c := range cases {
		if got := MatchLAN(c.name, c.filters, true); got != c.want {
			t.Errorf("MatchLAN(%q, %v, exact=true) = %v, want %v", c.name, c.filters, got, c.want)
		}
	}
}

func TestMatchLANs_KeepsOrderAndAllowsEmpty(t *testing.T) {
	lans := []ExchangeLAN{
		{ID: 1, Name: "AMS-IX"},
		{ID: 2, Name: "DE-CIX Lisbon"},
		{ID: 3, Name: "AMS-IX Hong Kong"},
	}

	got := MatchLANs(lans, []string{"ams"}, false)
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("unexpected match result: %+v", got)
	}

	// Zero matches is not an error: an empty slice flows downstream.
	if got := MatchLANs(lans, []string{"linx"}, false); len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}

	if got := MatchLANs(lans, nil, true); len(got) != 3 {
		t.Fatalf("empty filter list should pass everything, got %d", len(got))
	}
}

func TestParseASN(t *testing.T) {
	cases := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"210083", 210083, false},
		{"AS210083", 210083, false},
		{"as-13335", 13335, false},
		{"asn", 0, true},
		{"", 0, true},
	}
	for _, c := range cases {
		got, err := ParseASN(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseASN(%q): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseASN(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseASN(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}
