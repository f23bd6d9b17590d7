package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/edakit/internal/frame"
	"github.com/go-gota/gota/dataframe"
)

// CorrMatrix holds a symmetric Pearson correlation matrix. Cells are NaN where
// a pair has fewer than two complete observations or zero variance.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A, B string
	R    float64
}

// pairAcc accumulates the sums needed for an exact Pearson r over the rows
// where both values are present.
type pairAcc struct {
	n     float64
	sumX  float64
	sumY  float64
	sumXX float64
	sumYY float64
	sumXY float64
}

func (pa *pairAcc) add(x, y float64) {
	pa.n++
	pa.sumX += x
	pa.sumY += y
	pa.sumXX += x * x
	pa.sumYY += y * y
	pa.sumXY += x * y
}

func (pa *pairAcc) r() float64 {
	if pa.n < 2 {
		return math.NaN()
	}
	vx := pa.n*pa.sumXX - pa.sumX*pa.sumX
	vy := pa.n*pa.sumYY - pa.sumY*pa.sumY
	// cancellation can leave tiny positive residue for constant columns
	if vx <= 1e-12*pa.n*pa.sumXX || vy <= 1e-12*pa.n*pa.sumYY {
		return math.NaN()
	}
	r := (pa.n*pa.sumXY - pa.sumX*pa.sumY) / math.Sqrt(vx*vy)
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

// Correlate computes the pairwise-complete Pearson matrix of the named
// numeric columns of df.
func Correlate(df dataframe.DataFrame, cols []string) (*CorrMatrix, error) {
	vals := make([][]float64, len(cols))
	for i, c := range cols {
		xs, err := frame.Floats(df, c)
		if err != nil {
			return nil, err
		}
		vals[i] = xs
	}
	return CorrelateFloats(cols, vals), nil
}

// CorrelateFloats is Correlate over already extracted columns of equal length.
// NaN marks a missing value.
func CorrelateFloats(names []string, cols [][]float64) *CorrMatrix {
	n := len(cols)
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
	}
	for a := 0; a < n; a++ {
		for b := 0; b <= a; b++ {
			pa := &pairAcc{}
			xs, ys := cols[a], cols[b]
			m := len(xs)
			if len(ys) < m {
				m = len(ys)
			}
			for i := 0; i < m; i++ {
				x, y := xs[i], ys[i]
				if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
					continue
				}
				pa.add(x, y)
			}
			r := pa.r()
			if a == b && !math.IsNaN(r) {
				r = 1
			}
			mat[a][b] = r
			mat[b][a] = r
		}
	}
	out := &CorrMatrix{Columns: append([]string(nil), names...), Values: mat}
	return out
}

// Index returns the position of name in the matrix.
func (m *CorrMatrix) Index(name string) int {
	for i, c := range m.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// At returns r(a, b).
func (m *CorrMatrix) At(a, b string) (float64, bool) {
	i, j := m.Index(a), m.Index(b)
	if i < 0 || j < 0 {
		return math.NaN(), false
	}
	return m.Values[i][j], true
}

// TopCorrelated returns up to k columns ranked by |r| with target, excluding
// the target itself. Undefined correlations sort last.
func (m *CorrMatrix) TopCorrelated(target string, k int) []PairCorr {
	t := m.Index(target)
	if t < 0 {
		return nil
	}
	var pairs []PairCorr
	for j, c := range m.Columns {
		if j == t {
			continue
		}
		pairs = append(pairs, PairCorr{A: target, B: c, R: m.Values[t][j]})
	}
	sortPairs(pairs)
	if k >= 0 && len(pairs) > k {
		pairs = pairs[:k]
	}
	return pairs
}

// Pairs lists every off-diagonal pair once, strongest first.
func (m *CorrMatrix) Pairs() []PairCorr {
	var pairs []PairCorr
	n := len(m.Columns)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: m.Values[i][j]})
		}
	}
	sortPairs(pairs)
	return pairs
}

func sortPairs(pairs []PairCorr) {
	sort.SliceStable(pairs, func(i, j int) bool {
		ni, nj := math.IsNaN(pairs[i].R), math.IsNaN(pairs[j].R)
		if ni != nj {
			return nj
		}
		ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
		if ai == aj || (ni && nj) {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
}
