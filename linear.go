/*
 * linear.go, part of godesc
 *
 * Copyright 2025 Tuomas Koskela <tkoskela{at}protonDOTme>
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
*/

package desc

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

//Linear is a learned affine projection from in to out features. Weights
//are initialized deterministically from a seed so forward evaluation is
//bit-reproducible across runs.
type Linear struct {
	w       *mat.Dense //in x out
	b       []float64  //nil when bias-free
	in, out int
}

//NewLinear creates a projection with normally distributed weights of
//standard deviation 1/sqrt(in), and zero bias when bias is requested.
func NewLinear(in, out int, bias bool, seed int64) *Linear {
	if in <= 0 || out <= 0 {
		panic(ErrShape)
	}
	src := rand.NewSource(uint64(seed))
	rng := rand.New(src)
	w := mat.NewDense(in, out, nil)
	std := 1 / math.Sqrt(float64(in))
	for i := 0; i < in; i++ {
		for j := 0; j < out; j++ {
			w.Set(i, j, rng.NormFloat64()*std)
		}
	}
	var b []float64
	if bias {
		b = make([]float64, out)
	}
	return &Linear{w: w, b: b, in: in, out: out}
}

//Dims returns the input and output widths.
func (L *Linear) Dims() (int, int) { return L.in, L.out }

//Apply projects every row of x. x must have L.in columns; anything else
//is a programmer error and panics.
func (L *Linear) Apply(x *mat.Dense) *mat.Dense {
	rows, cols := x.Dims()
	if cols != L.in {
		panic(ErrShape)
	}
	ret := mat.NewDense(rows, L.out, nil)
	ret.Mul(x, L.w)
	if L.b != nil {
		for r := 0; r < rows; r++ {
			for c := 0; c < L.out; c++ {
				ret.Set(r, c, ret.At(r, c)+L.b[c])
			}
		}
	}
	return ret
}

//applyActivation applies a in place to every element of x.
func applyActivation(x *mat.Dense, a Activation) {
	if a == NoActivation {
		return
	}
	rows, cols := x.Dims()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			x.Set(r, c, a.Eval(x.At(r, c)))
		}
	}
}

//childSeed derives a distinct, deterministic seed for the idx-th
//sub-component of a parent seed.
func childSeed(seed int64, idx int) int64 {
	z := uint64(seed) + uint64(idx)*0x9e3779b97f4a7c15 + 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return int64(z ^ (z >> 31))
}
