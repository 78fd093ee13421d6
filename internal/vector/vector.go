package vector

import "math"

// Vector is a simple float32 slice wrapper.
type Vector []float32

// CosineSimilarity computes the cosine of the angle between two vectors.
// Vectors of different lengths or zero magnitude yield 0.
func CosineSimilarity(a, b Vector) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, magA, magB float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		magA += av * av
		magB += bv * bv
	}
	denom := math.Sqrt(magA) * math.Sqrt(magB)
	if denom == 0 {
		return 0
	}
	return float32(dot / denom)
}

// Zero returns a zero vector of the given dimension.
func Zero(dim int) Vector {
	return make(Vector, dim)
}

// Scale returns v * s as a new vector.
func Scale(v Vector, s float32) Vector {
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = x * s
	}
	return out
}

// Add accumulates src into dst in place. Both must share a dimension.
func Add(dst, src Vector) {
	for i := range src {
		dst[i] += src[i]
	}
}

// ScaleRows returns a new row set with every row multiplied by s.
func ScaleRows(rows []Vector, s float32) []Vector {
	out := make([]Vector, len(rows))
	for i, r := range rows {
		out[i] = Scale(r, s)
	}
	return out
}

// PadRows appends zero rows of the given dimension until the row set has
// at least n rows. The input slice is not modified.
func PadRows(rows []Vector, n, dim int) []Vector {
	out := make([]Vector, 0, n)
	out = append(out, rows...)
	for len(out) < n {
		out = append(out, Zero(dim))
	}
	return out
}

// Flatten concatenates all rows into a single vector, row-major.
func Flatten(rows []Vector) Vector {
	size := 0
	for _, r := range rows {
		size += len(r)
	}
	out := make(Vector, 0, size)
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}
