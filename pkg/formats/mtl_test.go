package formats

import (
	"errors"
	"testing"
)

func TestParseMTL(t *testing.T) {
	src := `# two materials
Kd 9 9 9
newmtl brick
Ka 0.1 0.1 0.1
Kd 0.8 0.2 0.1
Ks 0.5
Ns 32
d 0.75
map_Kd -s 1 1 1 textures/brick.png

newmtl glass
Tr 0.9
illum 4
`
	mats, err := ParseMTL([]byte(src))
	if err != nil {
		t.Fatalf("ParseMTL: %v", err)
	}
	if len(mats) != 2 {
		t.Fatalf("got %d materials, want 2", len(mats))
	}

	brick := mats[0]
	if brick.Name != "brick" {
		t.Errorf("name = %q", brick.Name)
	}
	if brick.Ambient != [3]float32{0.1, 0.1, 0.1} || brick.Diffuse != [3]float32{0.8, 0.2, 0.1} {
		t.Errorf("colors = %v %v", brick.Ambient, brick.Diffuse)
	}
	if brick.Specular != [3]float32{0.5, 0.5, 0.5} {
		t.Errorf("single-value Ks = %v", brick.Specular)
	}
	if brick.Shininess != 32 || brick.Opacity != 0.75 {
		t.Errorf("Ns/d = %v/%v", brick.Shininess, brick.Opacity)
	}
	if brick.DiffuseMap != "textures/brick.png" {
		t.Errorf("map_Kd = %q", brick.DiffuseMap)
	}

	glass := mats[1]
	if glass.Opacity < 0.099 || glass.Opacity > 0.101 {
		t.Errorf("opacity from Tr = %v", glass.Opacity)
	}
	if glass.Diffuse != [3]float32{0.8, 0.8, 0.8} {
		t.Errorf("glass keeps default diffuse, got %v", glass.Diffuse)
	}
}

func TestParseMTLErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"two channels", "newmtl a\nKd 1 1\n"},
		{"spectral", "newmtl a\nKd spectral file.rfl\n"},
		{"missing Ns", "newmtl a\nNs\n"},
		{"bad d", "newmtl a\nd half\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseMTL([]byte(tt.input)); !errors.Is(err, ErrMalformedMTL) {
				t.Errorf("expected ErrMalformedMTL, got %v", err)
			}
		})
	}
}
