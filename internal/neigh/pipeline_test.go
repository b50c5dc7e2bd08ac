package neigh

import (
	"strings"
	"testing"

	"github.com/route-beacon/neighgen/internal/pdb"
)

// End-to-end over the in-memory pipeline: filter, normalize, render.
func TestPipeline_FilteredExchange(t *testing.T) {
	network := testNetwork()
	lans := testLANs()
	members := testMembers()

	matched := pdb.MatchLANs(lans, []string{"ams-ix"}, false)
	if len(matched) != 1 || matched[0].Name != "AMS-IX" {
		t.Fatalf("matched = %+v", matched)
	}

	recs := Build(network, matched, members, BuildOptions{
		MaxPrefixFallback4: 10000,
		MaxPrefixFallback6: 10000,
		TrimName:           true,
		TrimWords:          1,
	})
	if len(recs) != 1 {
		t.Fatalf("expected only the AMS-IX peer, got %+v", recs)
	}

	out, err := Render(recs, testRenderConfig())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "DE-CIX") {
		t.Errorf("filtered-out exchange leaked into output:\n%s", out)
	}
	for _, want := range []string{
		"neighbor 80.249.212.2",
		"neighbor 2001:7f8:1::2",
		"no address-family ipv6 unicast",
		"no address-family ipv4 unicast",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// Name trimming only affects descriptions, not matching.
func TestPipeline_TrimAppliesAfterMatch(t *testing.T) {
	recs := Build(testNetwork(), pdb.MatchLANs(testLANs(), []string{"lisbon"}, false), testMembers(), BuildOptions{
		MaxPrefixFallback4: 1, MaxPrefixFallback6: 1,
		TrimName: true, TrimWords: 1,
	})
	if len(recs) != 1 {
		t.Fatalf("recs = %+v", recs)
	}
	if recs[0].IXName != "DE-CIX" {
		t.Errorf("trimmed description name = %q", recs[0].IXName)
	}
}

// Zero matches flows through as empty output, not an error.
func TestPipeline_ZeroMatches(t *testing.T) {
	matched := pdb.MatchLANs(testLANs(), []string{"linx"}, false)
	recs := Build(testNetwork(), matched, testMembers(), BuildOptions{MaxPrefixFallback4: 1, MaxPrefixFallback6: 1})
	out, err := Render(recs, testRenderConfig())
	if err != nil {
		t.Fatal(err)
	}
	if out != "" {
		t.Errorf("expected empty config, got:\n%s", out)
	}
}
