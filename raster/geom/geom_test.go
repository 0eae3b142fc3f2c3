package geom

import "testing"

func TestComputeClipMask_InsideCube(t *testing.T) {
	p := Vec4{0, 0, 0, 1}
	if mask := ComputeClipMask(p); mask != 0 {
		t.Errorf("origin should be inside all planes, got mask %#x", mask)
	}
}

func TestComputeClipMask_OutsidePositiveX(t *testing.T) {
	p := Vec4{2, 0, 0, 1} // x > w
	mask := ComputeClipMask(p)
	if mask&ClipPositiveX == 0 {
		t.Errorf("expected ClipPositiveX bit set, got mask %#x", mask)
	}
	if mask&^ClipPositiveX != 0 {
		t.Errorf("expected only ClipPositiveX bit set, got mask %#x", mask)
	}
}

func TestComputeClipMask_MatchesDotProductDefinition(t *testing.T) {
	pts := []Vec4{
		{0, 0, 0, 1},
		{5, -5, 0.2, 1},
		{-3, 2, -9, 1},
		{1, 1, 1, 1},
		{0.999, 0.999, 0.999, 1},
		{1.001, 0, 0, 1},
	}
	for _, p := range pts {
		got := ComputeClipMask(p)
		var want ClipMask
		for i, plane := range ClipPlanes {
			if plane.Dot(p) < 0 {
				want |= clipMaskBits[i]
			}
		}
		if got != want {
			t.Errorf("ComputeClipMask(%v) = %#x, want %#x", p, got, want)
		}
	}
}

func TestPlane_IntersectsAABB(t *testing.T) {
	plane := NewPlane(Vec3{0, 1, 0}, Vec3{0, 0, 0}) // y = 0 plane, normal +Y

	tests := []struct {
		name string
		box  AABB
		want Side
	}{
		{"fully above", AABB{Vec3{-1, 1, -1}, Vec3{1, 2, 1}}, Front},
		{"fully below", AABB{Vec3{-1, -2, -1}, Vec3{1, -1, 1}}, Back},
		{"straddling", AABB{Vec3{-1, -1, -1}, Vec3{1, 1, 1}}, Cross},
	}
	for _, tc := range tests {
		if got := plane.IntersectsAABB(tc.box); got != tc.want {
			t.Errorf("%s: IntersectsAABB = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestFrustum_IntersectsAABB_PreRejectShortcut(t *testing.T) {
	f := Frustum{
		Planes: [6]Plane{
			NewPlane(Vec3{0, 0, -1}, Vec3{0, 0, -1}), // near: z <= -1 visible side
			NewPlane(Vec3{0, 0, 1}, Vec3{0, 0, 1}),   // far: z >= 1 visible side... (symmetric, test only uses one)
		},
		Bounds: AABB{Vec3{-1, -1, -1}, Vec3{1, 1, 1}},
	}
	// A box entirely outside both the plane and the frustum bounds must be rejected.
	far := AABB{Vec3{10, 10, 10}, Vec3{11, 11, 11}}
	if f.IntersectsAABB(far) {
		t.Error("expected far-away box to be rejected")
	}
}

func TestAABB_Intersects(t *testing.T) {
	a := AABB{Vec3{0, 0, 0}, Vec3{1, 1, 1}}
	b := AABB{Vec3{0.5, 0.5, 0.5}, Vec3{2, 2, 2}}
	c := AABB{Vec3{5, 5, 5}, Vec3{6, 6, 6}}

	if !a.Intersects(b) {
		t.Error("expected overlapping boxes to intersect")
	}
	if a.Intersects(c) {
		t.Error("expected distant boxes to not intersect")
	}
}

func TestVec3_Normalize(t *testing.T) {
	v := Vec3{3, 0, 4}.Normalize()
	if abs(v.Length()-1) > 1e-5 {
		t.Errorf("expected unit length, got %v", v.Length())
	}
}
