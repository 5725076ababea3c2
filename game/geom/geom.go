package geom

import "math"

// Vec2 is a point or direction on the ground plane. The game is viewed
// top-down: X runs across the floor, Z runs into the scene.
type Vec2 struct {
	X, Z float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Z - o.Z} }

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Z * s} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Z) }

// LenSq returns the squared length of v.
func (v Vec2) LenSq() float64 { return v.X*v.X + v.Z*v.Z }

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Z*o.Z }

// Normalize returns v scaled to unit length. A zero vector stays zero so
// callers never divide by zero on degenerate movement.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Z / l}
}

// Perp returns v rotated 90 degrees counterclockwise (viewed from above).
func (v Vec2) Perp() Vec2 { return Vec2{-v.Z, v.X} }

// Dist returns the distance between a and b.
func Dist(a, b Vec2) float64 { return a.Sub(b).Len() }

// DistSq returns the squared distance between a and b.
func DistSq(a, b Vec2) float64 { return a.Sub(b).LenSq() }

// Clamp limits value to the range [lo, hi].
func Clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// Rect is an axis-aligned rectangle on the ground plane.
type Rect struct {
	MinX, MinZ, MaxX, MaxZ float64
}

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Z >= r.MinZ && p.Z <= r.MaxZ
}

// Expand grows the rectangle by pad on every side.
func (r Rect) Expand(pad float64) Rect {
	return Rect{r.MinX - pad, r.MinZ - pad, r.MaxX + pad, r.MaxZ + pad}
}

// ClosestPoint returns the point inside r nearest to p.
func (r Rect) ClosestPoint(p Vec2) Vec2 {
	return Vec2{Clamp(p.X, r.MinX, r.MaxX), Clamp(p.Z, r.MinZ, r.MaxZ)}
}

// ClosestPointOnSegment returns the point on segment a-b nearest to p, plus
// the parametric position t in [0, 1] of that point along the segment.
func ClosestPointOnSegment(a, b, p Vec2) (Vec2, float64) {
	ab := b.Sub(a)
	lenSq := ab.LenSq()
	if lenSq == 0 {
		return a, 0
	}
	t := Clamp(p.Sub(a).Dot(ab)/lenSq, 0, 1)
	return a.Add(ab.Scale(t)), t
}

// SegmentIntersectsCircle reports whether segment a-b passes within radius of
// center.
func SegmentIntersectsCircle(a, b, center Vec2, radius float64) bool {
	closest, _ := ClosestPointOnSegment(a, b, center)
	return DistSq(closest, center) <= radius*radius
}

// SegmentIntersectsRect reports whether segment a-b crosses the rectangle,
// using the standard slab test on each axis.
func SegmentIntersectsRect(a, b Vec2, r Rect) bool {
	d := b.Sub(a)
	tMin, tMax := 0.0, 1.0

	// X slab
	if math.Abs(d.X) < 1e-12 {
		if a.X < r.MinX || a.X > r.MaxX {
			return false
		}
	} else {
		inv := 1.0 / d.X
		t1 := (r.MinX - a.X) * inv
		t2 := (r.MaxX - a.X) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}

	// Z slab
	if math.Abs(d.Z) < 1e-12 {
		if a.Z < r.MinZ || a.Z > r.MaxZ {
			return false
		}
	} else {
		inv := 1.0 / d.Z
		t1 := (r.MinZ - a.Z) * inv
		t2 := (r.MaxZ - a.Z) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}

	return true
}
