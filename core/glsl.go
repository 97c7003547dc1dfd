package core

import (
	"fmt"
	"strings"
)

// DefaultGLSLVersion is the #version the prologue declares unless the
// builder overrides it.
const DefaultGLSLVersion = 110

const (
	numTemps      = 13
	numInputs     = 16
	positionTemp  = 12
	viewportScale = 58
	viewportOff   = 59
)

// Output registers other than oPos, in declaration order.
var declaredOutputs = []string{
	"oD0", "oD1", "oB0", "oB1", "oPts", "oFog", "oT0", "oT1", "oT2", "oT3",
}

const initVec4 = "vec4(0.0,0.0,0.0,1.0)"

const componentsLib = `/* Converts number of components of rvalue to lvalue */
float components(float l, vec4 r) { return r.x; }
vec2 components(vec2 l, vec4 r) { return r.xy; }
vec3 components(vec3 l, vec4 r) { return r.xyz; }
vec4 components(vec4 l, vec4 r) { return r.xyzw; }
`

// Helper macros and functions, one per opcode. Each macro stores into the
// masked lanes of dest only.
const opcodeLib = `#define MOV(dest,mask, src) dest.mask = components(dest.mask,_MOV(vec4(src)))
vec4 _MOV(vec4 src)
{
  return src;
}

#define MUL(dest,mask, src0, src1) dest.mask = components(dest.mask,_MUL(vec4(src0), vec4(src1)))
vec4 _MUL(vec4 src0, vec4 src1)
{
  return src0 * src1;
}

#define ADD(dest,mask, src0, src1) dest.mask = components(dest.mask,_ADD(vec4(src0), vec4(src1)))
vec4 _ADD(vec4 src0, vec4 src1)
{
  return src0 + src1;
}

#define MAD(dest,mask, src0, src1, src2) dest.mask = components(dest.mask,_MAD(vec4(src0), vec4(src1), vec4(src2)))
vec4 _MAD(vec4 src0, vec4 src1, vec4 src2)
{
  return src0 * src1 + src2;
}

#define DP3(dest,mask, src0, src1) dest.mask = components(dest.mask,_DP3(vec4(src0), vec4(src1)))
vec4 _DP3(vec4 src0, vec4 src1)
{
  return vec4(dot(src0.xyz, src1.xyz));
}

#define DPH(dest,mask, src0, src1) dest.mask = components(dest.mask,_DPH(vec4(src0), vec4(src1)))
vec4 _DPH(vec4 src0, vec4 src1)
{
  return vec4(dot(vec4(src0.xyz, 1.0), src1));
}

#define DP4(dest,mask, src0, src1) dest.mask = components(dest.mask,_DP4(vec4(src0), vec4(src1)))
vec4 _DP4(vec4 src0, vec4 src1)
{
  return vec4(dot(src0, src1));
}

#define DST(dest,mask, src0, src1) dest.mask = components(dest.mask,_DST(vec4(src0), vec4(src1)))
vec4 _DST(vec4 src0, vec4 src1)
{
  return vec4(1.0,
              src0.y * src1.y,
              src0.z,
              src1.w);
}

#define MIN(dest,mask, src0, src1) dest.mask = components(dest.mask,_MIN(vec4(src0), vec4(src1)))
vec4 _MIN(vec4 src0, vec4 src1)
{
  return min(src0, src1);
}

#define MAX(dest,mask, src0, src1) dest.mask = components(dest.mask,_MAX(vec4(src0), vec4(src1)))
vec4 _MAX(vec4 src0, vec4 src1)
{
  return max(src0, src1);
}

#define SLT(dest,mask, src0, src1) dest.mask = components(dest.mask,_SLT(vec4(src0), vec4(src1)))
vec4 _SLT(vec4 src0, vec4 src1)
{
  return vec4(src0.x < src1.x ? 1.0 : 0.0,
              src0.y < src1.y ? 1.0 : 0.0,
              src0.z < src1.z ? 1.0 : 0.0,
              src0.w < src1.w ? 1.0 : 0.0);
}

#define SGE(dest,mask, src0, src1) dest.mask = components(dest.mask,_SGE(vec4(src0), vec4(src1)))
vec4 _SGE(vec4 src0, vec4 src1)
{
  return vec4(src0.x >= src1.x ? 1.0 : 0.0,
              src0.y >= src1.y ? 1.0 : 0.0,
              src0.z >= src1.z ? 1.0 : 0.0,
              src0.w >= src1.w ? 1.0 : 0.0);
}

#define ARL(dest, src) dest = _ARL(vec4(src).x)
int _ARL(float src)
{
  return int(src);
}

#define RCP(dest,mask, src) dest.mask = components(dest.mask,_RCP(vec4(src).x))
vec4 _RCP(float src)
{
  return vec4(1.0 / src);
}

#define RCC(dest,mask, src) dest.mask = components(dest.mask,_RCC(vec4(src).x))
vec4 _RCC(float src)
{
  float t = 1.0 / src;
  if (t > 0.0) {
    t = min(t, 1.884467e+019);
    t = max(t, 5.42101e-020);
  } else {
    t = max(t, -1.884467e+019);
    t = min(t, -5.42101e-020);
  }
  return vec4(t);
}

#define RSQ(dest,mask, src) dest.mask = components(dest.mask,_RSQ(vec4(src).x))
vec4 _RSQ(float src)
{
  return vec4(1.0 / sqrt(src));
}

#define EXP(dest,mask, src) dest.mask = components(dest.mask,_EXP(vec4(src).x))
vec4 _EXP(float src)
{
  return vec4(exp2(src));
}

#define LOG(dest,mask, src) dest.mask = components(dest.mask,_LOG(vec4(src).x))
vec4 _LOG(float src)
{
  return vec4(log2(src));
}

#define LIT(dest,mask, src) dest.mask = components(dest.mask,_LIT(vec4(src)))
vec4 _LIT(vec4 src)
{
  vec4 t = vec4(1.0, 0.0, 0.0, 1.0);
  float power = src.w;
  if (src.x > 0.0) {
    t.y = src.x;
    if (src.y > 0.0) {
      t.z = pow(src.y, power);
    }
  }
  return t;
}
`

// writePrologue emits the declarations and the helper library.
func writePrologue(b *strings.Builder, glslVersion int) {
	fmt.Fprintf(b, "#version %d\n\n", glslVersion)

	for i := 0; i < numTemps; i++ {
		fmt.Fprintf(b, "vec4 R%d = %s;\n", i, initVec4)
	}
	b.WriteString("\nint A0 = 0;\n\n")

	for i := 0; i < numInputs; i++ {
		fmt.Fprintf(b, "attribute vec4 v%d;\n", i)
	}
	b.WriteString("\n")

	fmt.Fprintf(b, "#define oPos R%d /* oPos is a mirror of R%d */\n",
		positionTemp, positionTemp)
	for _, name := range declaredOutputs {
		fmt.Fprintf(b, "vec4 %s = %s;\n", name, initVec4)
	}
	b.WriteString("\n")

	fmt.Fprintf(b, "uniform vec4 c[%d];\n", NumConstants)
	fmt.Fprintf(b, "#define viewport_scale c[%d]\n", viewportScale)
	fmt.Fprintf(b, "#define viewport_offset c[%d]\n", viewportOff)
	b.WriteString("uniform vec2 cliprange;\n\n")

	b.WriteString(componentsLib)
	b.WriteString("\n")
	b.WriteString(opcodeLib)
}

// writeDebugPrologue declares the feedback varyings and the macros that
// copy the temporaries into them after each slot.
func writeDebugPrologue(b *strings.Builder) {
	b.WriteString("\n/* Debug stuff */\n")
	for i := 0; i < numInputs; i++ {
		fmt.Fprintf(b, "varying vec4 debug_v%d;\n", i)
	}
	for _, name := range debugOutputs() {
		fmt.Fprintf(b, "varying vec4 debug_%s;\n", name)
	}
	b.WriteString("\n")

	b.WriteString("#define DEBUG_VAR(slot,var) debug_ ## slot ## _ ## var = var;\n")
	writeDebugMacro(b, "DEBUG", "DEBUG_VAR")
	b.WriteString("\n")

	b.WriteString("#define DEBUG_VARYING_VAR(slot,var) varying vec4 debug_ ## slot ## _ ## var;\n")
	writeDebugMacro(b, "DEBUG_VARYING", "DEBUG_VARYING_VAR")
	b.WriteString("\n")
}

func writeDebugMacro(b *strings.Builder, name, perVar string) {
	fmt.Fprintf(b, "#define %s(slot) \\\n", name)
	for i := 0; i < numTemps; i++ {
		fmt.Fprintf(b, "  %s(slot,R%d)", perVar, i)
		if i < numTemps-1 {
			b.WriteString(" \\")
		}
		b.WriteString("\n")
	}
}

func debugOutputs() []string {
	return append([]string{"oPos"}, declaredOutputs...)
}

func writeDebugInput(b *strings.Builder) {
	b.WriteString("  /* Debug input */\n")
	for i := 0; i < numInputs; i++ {
		fmt.Fprintf(b, "  debug_v%d = v%d;\n", i, i)
	}
	b.WriteString("\n")
}

func writeDebugOutput(b *strings.Builder) {
	b.WriteString("  /* Debug output */\n")
	for _, name := range debugOutputs() {
		fmt.Fprintf(b, "  debug_%s = %s;\n", name, name)
	}
	b.WriteString("\n")
}

// The program leaves oPos in screen space. The epilogue maps it back to clip
// space with the viewport constants, skipping axes whose scale is zero.
const epilogue = `  /* Un-screenspace transform */
  R12.xyz = R12.xyz - viewport_offset.xyz;
  vec3 tmp = vec3(1.0);
  if (viewport_scale.x != 0.0) { tmp.x /= viewport_scale.x; }
  if (viewport_scale.y != 0.0) { tmp.y /= viewport_scale.y; }
  if (viewport_scale.z != 0.0) { tmp.z /= viewport_scale.z; }
  R12.xyz = R12.xyz * tmp.xyz;
  R12.xyz *= R12.w;

  /* Set outputs */
  gl_Position = oPos;
  gl_FrontColor = oD0;
  gl_FrontSecondaryColor = oD1;
  gl_BackColor = oB0;
  gl_BackSecondaryColor = oB1;
  gl_PointSize = oPts.x;
  gl_FogFragCoord = oFog.x;
  gl_TexCoord[0] = oT0;
  gl_TexCoord[1] = oT1;
  gl_TexCoord[2] = oT2;
  gl_TexCoord[3] = oT3;

`
