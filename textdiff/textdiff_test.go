package textdiff

import (
	"strings"
	"testing"
)

func TestStringsMarkers(t *testing.T) {
	got := Strings("the quick brown fox", "the slow brown fox", false)
	if !strings.Contains(got, "[-") || !strings.Contains(got, "{+") {
		t.Errorf("diff lacks markers: %q", got)
	}
	if !strings.Contains(got, "brown fox") {
		t.Errorf("diff lost common suffix: %q", got)
	}
}

func TestStringsEqual(t *testing.T) {
	if got := Strings("same", "same", false); got != "same" {
		t.Errorf("diff of equal strings = %q", got)
	}
}
