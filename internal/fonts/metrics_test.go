package fonts

import "testing"

func TestResolvedFont_Ascent(t *testing.T) {
	def := DefaultFont()

	got := def.Ascent(40)
	if got <= 0 || got >= 60 {
		t.Errorf("Ascent(40) = %.2f, want a value in (0, 60)", got)
	}
	if twice := def.Ascent(80); twice < 2*got-0.01 || twice > 2*got+0.01 {
		t.Errorf("Ascent should scale with size: %.2f vs %.2f", got, twice)
	}

	broken := &ResolvedFont{Name: "broken", Data: []byte("garbage")}
	if a := broken.Ascent(40); a != 0 {
		t.Errorf("Ascent of unparsable data = %.2f, want 0", a)
	}
}
