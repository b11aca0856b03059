package reverb

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	householderSize = 8

	// orthogonalityTolerance bounds |MᵀM − I| for a matrix to count as
	// energy preserving.
	orthogonalityTolerance = 1e-4
)

// Matrix is the N×N feedback mixing matrix of an FDN.
//
// The base matrix is orthogonal: the Householder reflection about the
// all-ones vector for eight lines, and the reflection about the alternating
// sign vector otherwise. Column j of the applied matrix is the base column scaled by the
// decay gain of line j.
type Matrix struct {
	n      int
	base   []float64 // row-major, unscaled
	scaled []float64 // row-major, column-scaled by gains
	gains  []float64
}

// NewMatrix builds the base matrix for n lines with unity decay gains.
func NewMatrix(n int) (*Matrix, error) {
	if n < MinDelayLines || n > MaxDelayLines {
		return nil, fmt.Errorf("fdn matrix size must be in [%d, %d]: %d", MinDelayLines, MaxDelayLines, n)
	}

	var b *mat.Dense
	if n == householderSize {
		b = householder(n)
	} else {
		b = signPattern(n)
	}

	m := &Matrix{
		n:      n,
		base:   make([]float64, n*n),
		scaled: make([]float64, n*n),
		gains:  make([]float64, n),
	}

	for i := range n {
		for j := range n {
			m.base[i*n+j] = b.At(i, j)
		}

		m.gains[i] = 1
	}

	copy(m.scaled, m.base)

	return m, nil
}

// householder returns (2/n)·vvᵀ − I for the all-ones v: diagonal −1+2/n,
// off-diagonal 2/n.
func householder(n int) *mat.Dense {
	v := mat.NewVecDense(n, nil)
	for i := range n {
		v.SetVec(i, 1)
	}

	return reflection(v)
}

// signPattern returns the Householder reflection about s = (1, −1, 1, …):
// entry (i, j) is (−1)^(i+j)·2/n − δij. Every row mixes every line, so the
// network stays full rank and the even and odd sums stay independent.
func signPattern(n int) *mat.Dense {
	s := mat.NewVecDense(n, nil)
	for i := range n {
		s.SetVec(i, 1-2*float64(i%2))
	}

	return reflection(s)
}

// reflection returns (2/|v|²)·vvᵀ − I, which is orthogonal for any non-zero v.
func reflection(v *mat.VecDense) *mat.Dense {
	n := v.Len()

	h := mat.NewDense(n, n, nil)
	h.Outer(2/mat.Dot(v, v), v, v)

	for i := range n {
		h.Set(i, i, h.At(i, i)-1)
	}

	return h
}

// Size returns N.
func (m *Matrix) Size() int { return m.n }

// At returns the applied (gain-scaled) entry at row i, column j.
func (m *Matrix) At(i, j int) float64 { return m.scaled[i*m.n+j] }

// BaseAt returns the unscaled entry at row i, column j.
func (m *Matrix) BaseAt(i, j int) float64 { return m.base[i*m.n+j] }

// SetDecayGains scales column j by gains[j]. Missing gains keep their value.
func (m *Matrix) SetDecayGains(gains []float64) {
	for j := range min(len(gains), m.n) {
		m.gains[j] = gains[j]
	}

	for i := range m.n {
		row := i * m.n
		for j := range m.n {
			m.scaled[row+j] = m.base[row+j] * m.gains[j]
		}
	}
}

// ColumnGain returns the decay gain applied to column j.
func (m *Matrix) ColumnGain(j int) float64 { return m.gains[j] }

// Apply computes dst = M·src. Both slices must hold at least N values and
// must not alias.
func (m *Matrix) Apply(dst, src []float64) {
	n := m.n
	src = src[:n]

	for i := range n {
		row := m.scaled[i*n : i*n+n]

		var sum float64
		for j, v := range src {
			sum += row[j] * v
		}

		dst[i] = sum
	}
}

// Dense returns a copy of the applied matrix.
func (m *Matrix) Dense() *mat.Dense {
	data := make([]float64, len(m.scaled))
	copy(data, m.scaled)

	return mat.NewDense(m.n, m.n, data)
}

// IsOrthogonal reports whether the base matrix satisfies MᵀM ≈ I within tol.
// A non-positive tol selects 1e-4.
func (m *Matrix) IsOrthogonal(tol float64) bool {
	if tol <= 0 {
		tol = orthogonalityTolerance
	}

	data := make([]float64, len(m.base))
	copy(data, m.base)
	b := mat.NewDense(m.n, m.n, data)

	var p mat.Dense
	p.Mul(b.T(), b)

	eye := mat.NewDense(m.n, m.n, nil)
	for i := range m.n {
		eye.Set(i, i, 1)
	}

	return mat.EqualApprox(&p, eye, tol)
}

// DecayGain returns the per-pass gain for a loop of delaySamples that decays
// by 60 dB in decayTime seconds:
//
//	g = 0.001^(delaySamples / (decayTime·sampleRate))
//
// For a 1000-sample loop this is 0.001^(1/(decayTime·sampleRate·0.001)).
func DecayGain(delaySamples, decayTime, sampleRate float64) float64 {
	if decayTime <= 0 || sampleRate <= 0 {
		return 0
	}

	return math.Pow(0.001, delaySamples/(decayTime*sampleRate))
}
