/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley

License: GPLv3 or later
*/

package nv2a

import "testing"

// TestPGRAPH_SetVertexAttributeFormatS1IsNotNormalized pins spec.md §4.10's
// literal format table ("S1 | signed short | 2 | no") against
// original_source/hw/xbox/nv2a.c's vertex_attribute->gl_normalize =
// GL_FALSE for NV097_SET_VERTEX_DATA_ARRAY_FORMAT_TYPE_S1.
func TestPGRAPH_SetVertexAttributeFormatS1IsNotNormalized(t *testing.T) {
	g := NewPGRAPH(&SubchannelTable{}, 8, nil)

	// format=S1(1), count=3, stride=0
	g.setVertexAttributeFormat(0, uint32(VertexFormatS1)|(3<<4))

	a := g.VertexAttributes[0]
	if a.Normalize {
		t.Error("S1 vertex attribute format must not be GL-normalized")
	}
	if a.Size != 2 || a.GLType != VertexComponentShort {
		t.Errorf("S1 attribute = %+v, want Size=2 GLType=Short", a)
	}
}

// TestPGRAPH_SetVertexAttributeFormatNormalizeByFormat cross-checks every
// other format code in spec.md §4.10's table against its normalize column
// in the same call, guarding against a regression narrowly scoped to S1.
func TestPGRAPH_SetVertexAttributeFormatNormalizeByFormat(t *testing.T) {
	cases := []struct {
		format    VertexFormat
		normalize bool
	}{
		{VertexFormatUB_D3D, true},
		{VertexFormatUB_OGL, true},
		{VertexFormatS1, false},
		{VertexFormatF, false},
		{VertexFormatS32K, false},
		{VertexFormatCMP, false},
	}
	for _, c := range cases {
		g := NewPGRAPH(&SubchannelTable{}, 8, nil)
		count := uint32(4) // satisfies UB_D3D's count==4 assertion
		g.setVertexAttributeFormat(0, uint32(c.format)|(count<<4))
		if got := g.VertexAttributes[0].Normalize; got != c.normalize {
			t.Errorf("format %v: Normalize = %v, want %v", c.format, got, c.normalize)
		}
	}
}
