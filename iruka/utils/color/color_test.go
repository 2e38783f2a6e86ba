package color

import "testing"

func TestColorCard_Plain(t *testing.T) {
	Disable()
	got := ColorCard(2, "Sutra Premium Garut", " Rp 275.000 ")
	want := "  [2] Sutra Premium Garut  Rp 275.000"
	if got != want {
		t.Errorf("want %q, got %q", want, got)
	}
	if ColorAssistant("halo") != "halo" {
		t.Error("disabled colors should return plain text")
	}
}
