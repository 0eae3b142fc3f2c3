package shader

import "testing"

type constVS struct{ size int }

func (c constVS) VaryingsSize() int { return c.size }
func (c constVS) Run(in VertexInput, u Uniforms) VertexOutput {
	return VertexOutput{Varyings: NewVaryings(c.size)}
}

type constFS struct{ size int }

func (c constFS) VaryingsSize() int { return c.size }
func (c constFS) Run(quad [4]FragmentInputs, u Uniforms, s Sampler) [4]FragmentOutput {
	var out [4]FragmentOutput
	return out
}
func (c constFS) EarlyZPermitted() bool { return true }

func TestNewProgram_RejectsVaryingsSizeMismatch(t *testing.T) {
	_, err := NewProgram(constVS{size: 4}, constFS{size: 3})
	if err != ErrShaderLinkMismatch {
		t.Fatalf("want ErrShaderLinkMismatch, got %v", err)
	}
}

func TestNewProgram_AcceptsMatchingSize(t *testing.T) {
	p, err := NewProgram(constVS{size: 4}, constFS{size: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Vertex == nil || p.Fragment == nil {
		t.Fatal("program missing vertex or fragment stage")
	}
}

func TestLerp_MidpointIsAverage(t *testing.T) {
	a := Varyings{0, 0, 0}
	b := Varyings{2, 4, 6}
	dst := NewVaryings(3)
	Lerp(dst, a, b, 0.5)
	want := Varyings{1, 2, 3}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestCombine3_PerspectiveCorrectWeightedAverage(t *testing.T) {
	v0 := Varyings{1}
	v1 := Varyings{0}
	v2 := Varyings{0}
	// Equal weights, equal w: reduces to barycentric average.
	invZ := float32(1) / (1.0/3.0/1 + 1.0/3.0/1 + 1.0/3.0/1)
	dst := NewVaryings(1)
	Combine3(dst, v0, v1, v2, 1.0/3, 1.0/3, 1.0/3, 1, 1, 1, invZ)
	if got, want := dst[0], float32(1.0/3.0); !approx(got, want) {
		t.Errorf("Combine3 = %v, want %v", got, want)
	}
}

func TestDFdx_DFdy_ReadCorrectLanes(t *testing.T) {
	quad := [4]Varyings{
		{0},  // p0 bottom-left
		{10}, // p1 bottom-right
		{5},  // p2 top-left
		{20}, // p3 top-right
	}
	if got := DFdx(quad, 0); got != 10 {
		t.Errorf("DFdx = %v, want 10", got)
	}
	if got := DFdy(quad, 0); got != 5 {
		t.Errorf("DFdy = %v, want 5", got)
	}
}

func approx(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-5
}
