package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_ZeroVectorStaysZero(t *testing.T) {
	assert.Equal(t, Vec2{}, Vec2{}.Normalize())
}

func TestNormalize_UnitLength(t *testing.T) {
	v := Vec2{X: 3, Z: 4}.Normalize()
	assert.InDelta(t, 1.0, v.Len(), 1e-9)
	assert.InDelta(t, 0.6, v.X, 1e-9)
	assert.InDelta(t, 0.8, v.Z, 1e-9)
}

func TestClosestPointOnSegment(t *testing.T) {
	a := Vec2{X: 0, Z: 0}
	b := Vec2{X: 10, Z: 0}

	tests := []struct {
		name  string
		p     Vec2
		want  Vec2
		wantT float64
	}{
		{"midpoint above", Vec2{X: 5, Z: 3}, Vec2{X: 5, Z: 0}, 0.5},
		{"before start", Vec2{X: -4, Z: 1}, Vec2{X: 0, Z: 0}, 0},
		{"past end", Vec2{X: 14, Z: -2}, Vec2{X: 10, Z: 0}, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, gotT := ClosestPointOnSegment(a, b, tc.p)
			assert.InDelta(t, tc.want.X, got.X, 1e-9)
			assert.InDelta(t, tc.want.Z, got.Z, 1e-9)
			assert.InDelta(t, tc.wantT, gotT, 1e-9)
		})
	}
}

func TestClosestPointOnSegment_DegenerateSegment(t *testing.T) {
	a := Vec2{X: 2, Z: 2}
	got, gotT := ClosestPointOnSegment(a, a, Vec2{X: 9, Z: 9})
	assert.Equal(t, a, got)
	assert.Zero(t, gotT)
}

func TestSegmentIntersectsCircle(t *testing.T) {
	a := Vec2{X: 0, Z: 0}
	b := Vec2{X: 10, Z: 0}

	assert.True(t, SegmentIntersectsCircle(a, b, Vec2{X: 5, Z: 1}, 1.5))
	assert.False(t, SegmentIntersectsCircle(a, b, Vec2{X: 5, Z: 3}, 1.5))
	// Circle beyond the segment end must not count.
	assert.False(t, SegmentIntersectsCircle(a, b, Vec2{X: 14, Z: 0}, 1.5))
}

func TestSegmentIntersectsRect(t *testing.T) {
	r := Rect{MinX: 4, MinZ: 4, MaxX: 6, MaxZ: 6}

	tests := []struct {
		name string
		a, b Vec2
		want bool
	}{
		{"straight through", Vec2{X: 0, Z: 5}, Vec2{X: 10, Z: 5}, true},
		{"misses above", Vec2{X: 0, Z: 8}, Vec2{X: 10, Z: 8}, false},
		{"diagonal through corner region", Vec2{X: 0, Z: 0}, Vec2{X: 10, Z: 10}, true},
		{"stops short", Vec2{X: 0, Z: 5}, Vec2{X: 3, Z: 5}, false},
		{"fully inside", Vec2{X: 4.5, Z: 4.5}, Vec2{X: 5.5, Z: 5.5}, true},
		{"vertical segment through", Vec2{X: 5, Z: 0}, Vec2{X: 5, Z: 10}, true},
		{"vertical segment beside", Vec2{X: 7, Z: 0}, Vec2{X: 7, Z: 10}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SegmentIntersectsRect(tc.a, tc.b, r))
		})
	}
}

func TestRectClosestPoint(t *testing.T) {
	r := Rect{MinX: 0, MinZ: 0, MaxX: 4, MaxZ: 4}
	assert.Equal(t, Vec2{X: 4, Z: 2}, r.ClosestPoint(Vec2{X: 7, Z: 2}))
	assert.Equal(t, Vec2{X: 1, Z: 1}, r.ClosestPoint(Vec2{X: 1, Z: 1}))
}
