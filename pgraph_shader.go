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

// pgraph_shader.go - shader bind (spec.md §4.8): assemble the cache key,
// look it up, compile on miss, upload uniforms.
//
// The GLSL bodies emitted here are a simplified stand-in for the NV2A
// register-combiner / vertex-program microcode interpreters real
// implementations carry (translating the combiner's per-stage RGB/alpha
// ops and the vertex program's full instruction set is out of scope for
// this port, see DESIGN.md): the fixed-function vertex transform applies the
// composite and invViewport matrices; the fragment stage is a fixed
// color/texture modulate picked by the shader stage program alone, and the
// combiner input/output and final-combiner registers are not translated.

package nv2a

import (
	"fmt"
	"strings"

	"github.com/gviegas/scene/linear"
)

// bindShaders implements spec.md §4.8's BEGIN-time shader bind: assemble
// the current ShaderState, consult the cache, compile on miss, bind and
// upload uniforms.
func (g *PGRAPH) bindShaders() {
	if g.host == nil {
		return
	}

	g.current.VertexProgram = g.ProgramLoad > 0
	g.current.FixedFunction = !g.current.VertexProgram
	g.current.VertexProgramLen = g.ProgramLoad
	for i := 0; i < g.ProgramLoad && i*4 < len(g.current.VertexProgramImage); i++ {
		putU32LE(g.current.VertexProgramImage[i*4:], g.VertexProgramTokens[i])
	}

	if !g.shadersDirty && g.currentProgram != 0 {
		g.host.UseProgram(uint32(g.currentProgram))
		return
	}

	if prog, ok := g.shaderCache.Lookup(&g.current); ok {
		g.currentProgram = prog
	} else {
		vs := generateVertexShaderSource(&g.current)
		fs := generateFragmentShaderSource(&g.current)
		handle, err := g.host.CompileProgram(vs, fs)
		if err != nil {
			g.raiseLocked(PGRAPHIntrError)
			return
		}
		prog = HostProgram(handle)
		g.shaderCache.Insert(&g.current, prog)
		g.currentProgram = prog
	}

	g.host.UseProgram(uint32(g.currentProgram))
	g.uploadShaderUniforms()
	g.shadersDirty = false
}

// flattenM4 lays out a column-major linear.M4 as a flat [16]float32, the
// shape HostBinding.UploadUniformMatrix4 (and gl.UniformMatrix4fv) expects.
func flattenM4(m linear.M4) [16]float32 {
	var out [16]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			out[col*4+row] = m[col][row]
		}
	}
	return out
}

func putU32LE(dst []byte, v uint32) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
	dst[3] = byte(v >> 24)
}

// uploadShaderUniforms implements spec.md §4.8's uniform set: the fixed
// function composite/invViewport matrices, or the vertex-program constant
// file and clip range, whichever mode is active.
func (g *PGRAPH) uploadShaderUniforms() {
	if g.current.FixedFunction {
		g.host.UploadUniformMatrix4("composite", flattenM4(g.CompositeMatrix))
		g.host.UploadUniformMatrix4("invViewport", flattenM4(g.InvViewport))
		return
	}
	for i := range g.Constants {
		if !g.ConstantDirty[i] {
			continue
		}
		g.host.UploadUniformVec4(fmt.Sprintf("c[%d]", i), g.Constants[i])
		g.ConstantDirty[i] = false
	}
	g.host.UploadUniformFloat2("clipRange", [2]float32{g.ZClipMin, g.ZClipMax})
}

// generateVertexShaderSource emits the GLSL vertex stage for the current
// shader state (spec.md §4.8).
func generateVertexShaderSource(s *ShaderState) string {
	var b strings.Builder
	b.WriteString("#version 330 core\n")
	b.WriteString("layout(location = 0) in vec4 in_position;\n")
	b.WriteString("layout(location = 3) in vec4 in_diffuse;\n")
	b.WriteString("out vec4 v_diffuse;\n")
	if s.FixedFunction {
		b.WriteString("uniform mat4 composite;\n")
		b.WriteString("uniform mat4 invViewport;\n")
		b.WriteString("void main() {\n")
		b.WriteString("    gl_Position = invViewport * composite * in_position;\n")
		b.WriteString("    v_diffuse = in_diffuse;\n")
		b.WriteString("}\n")
		return b.String()
	}
	b.WriteString("uniform vec4 c[192];\n")
	b.WriteString("uniform vec2 clipRange;\n")
	b.WriteString("void main() {\n")
	// Full vertex-program microcode translation is out of scope (DESIGN.md):
	// the first four constant slots are used as the columns of a 4x4
	// transform, matching the common driver convention of loading the
	// composite matrix there when no custom program is resident.
	b.WriteString("    mat4 xf = mat4(c[0], c[1], c[2], c[3]);\n")
	b.WriteString("    gl_Position = xf * in_position;\n")
	b.WriteString("    v_diffuse = in_diffuse;\n")
	b.WriteString("}\n")
	return b.String()
}

// generateFragmentShaderSource emits the GLSL fragment stage (spec.md
// §4.8). Only the low four bits of ShaderStageProgram (stage 0) and
// RectTex[0] are read: when that stage is non-zero the interpolated color is
// multiplied by a tex0 sample, otherwise it passes through unchanged.
// CombinerControl, RGBIn/RGBOut, AlphaIn/AlphaOut and FinalInputs are not
// read.
func generateFragmentShaderSource(s *ShaderState) string {
	var b strings.Builder
	b.WriteString("#version 330 core\n")
	b.WriteString("in vec4 v_diffuse;\n")
	b.WriteString("out vec4 out_color;\n")
	if s.RectTex[0] {
		b.WriteString("uniform sampler2DRect tex0;\n")
	} else {
		b.WriteString("uniform sampler2D tex0;\n")
	}
	b.WriteString("void main() {\n")
	if s.ShaderStageProgram&0xF != 0 {
		if s.RectTex[0] {
			b.WriteString("    vec4 t = texture(tex0, gl_FragCoord.xy);\n")
		} else {
			b.WriteString("    vec4 t = texture(tex0, v_diffuse.xy);\n")
		}
		b.WriteString("    out_color = t * v_diffuse;\n")
	} else {
		b.WriteString("    out_color = v_diffuse;\n")
	}
	b.WriteString("}\n")
	return b.String()
}
