/*
 * envmat.go, part of godesc
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

//envmat.go builds the smoothed environment matrix: the per-neighbor
//[1/r, x/r^2, y/r^2, z/r^2] features that encode each atom's local
//geometry, weighted by the switch function so that every contribution
//vanishes smoothly at the cutoff.

package desc

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

//EnvMat holds the per-edge geometry of a batch: the (weighted, possibly
//normalized) environment features, the raw displacement vectors and the
//switch weights. Rows are laid out row-major over (frame, atom, slot).
type EnvMat struct {
	Mat   *mat.Dense //(nf*nloc*nnei) x width
	Diff  *mat.Dense //(nf*nloc*nnei) x 3, zero for padded slots
	Sw    []float64  //nf*nloc*nnei, zero for padded slots
	Width int        //4, or 1 in radial-only mode
}

//buildEnvMat computes the raw environment matrix for a batch of frames.
//coords has one nall x 3 matrix per frame; nl indexes into it. Padded
//slots are redirected to a synthetic atom placed one cutoff beyond the
//last extended atom, so they can never pass the cutoff test, and their
//distance gets a constant offset so no reciprocal can divide by zero.
func buildEnvMat(coords []*mat.Dense, nl *NeighborList, rCut, rSmth float64, radialOnly bool, protection float64, swf Switch) *EnvMat {
	if coords == nil {
		panic(ErrNilCoordinates)
	}
	if nl == nil {
		panic(ErrNilNeighborList)
	}
	nf, nloc, nnei := nl.Dims()
	if len(coords) != nf {
		panic(ErrShape)
	}
	width := 4
	if radialOnly {
		width = 1
	}
	nrows := nf * nloc * nnei
	ret := &EnvMat{
		Mat:   mat.NewDense(nrows, width, nil),
		Diff:  mat.NewDense(nrows, 3, nil),
		Sw:    make([]float64, nrows),
		Width: width,
	}
	var diff [3]float64
	for f := 0; f < nf; f++ {
		c := coords[f]
		nall, ccols := c.Dims()
		if ccols != 3 || nall < nloc {
			panic(ErrShape)
		}
		for i := 0; i < nloc; i++ {
			xi, yi, zi := c.At(i, 0), c.At(i, 1), c.At(i, 2)
			for j := 0; j < nnei; j++ {
				idx := nl.At(f, i, j)
				masked := idx == PadSentinel
				if idx >= nall {
					panic(ErrBadIndex)
				}
				var xn, yn, zn float64
				if masked {
					//the synthetic padding atom, guaranteed out of range
					xn = c.At(nall-1, 0) + rCut
					yn = c.At(nall-1, 1) + rCut
					zn = c.At(nall-1, 2) + rCut
				} else {
					xn, yn, zn = c.At(idx, 0), c.At(idx, 1), c.At(idx, 2)
				}
				diff[0] = xn - xi
				diff[1] = yn - yi
				diff[2] = zn - zi
				length := math.Sqrt(diff[0]*diff[0] + diff[1]*diff[1] + diff[2]*diff[2])
				if masked {
					length++ //keeps all divisions below well-defined
				}
				w := swf.Weight(length, rSmth, rCut)
				if masked {
					w = 0
				}
				r := (f*nloc+i)*nnei + j
				ret.Sw[r] = w
				t0 := 1 / (length + protection)
				ret.Mat.Set(r, 0, t0*w)
				if !radialOnly {
					den := (length + protection) * (length + protection)
					ret.Mat.Set(r, 1, diff[0]/den*w)
					ret.Mat.Set(r, 2, diff[1]/den*w)
					ret.Mat.Set(r, 3, diff[2]/den*w)
				}
				if !masked {
					ret.Diff.Set(r, 0, diff[0])
					ret.Diff.Set(r, 1, diff[1])
					ret.Diff.Set(r, 2, diff[2])
				}
			}
		}
	}
	return ret
}

//ProdEnvMat builds the environment matrix and normalizes it with per-type
//statistics: (raw - mean[type])/stddev[type], broadcast over the neighbor
//slots of each atom according to its element type. The displacement and
//switch weight are returned untouched by the normalization.
func ProdEnvMat(coords []*mat.Dense, nl *NeighborList, atype [][]int, st *Stats, rCut, rSmth float64, radialOnly bool, protection float64, swf Switch) *EnvMat {
	em := buildEnvMat(coords, nl, rCut, rSmth, radialOnly, protection, swf)
	nf, nloc, nnei := nl.Dims()
	if len(atype) != nf {
		panic(ErrShape)
	}
	if st.Nnei < nnei {
		panic(ErrShape)
	}
	for f := 0; f < nf; f++ {
		if len(atype[f]) < nloc {
			panic(ErrShape)
		}
		for i := 0; i < nloc; i++ {
			t := atype[f][i]
			for j := 0; j < nnei; j++ {
				r := (f*nloc+i)*nnei + j
				for c := 0; c < em.Width; c++ {
					v := em.Mat.At(r, c)
					em.Mat.Set(r, c, (v-st.MeanAt(t, j, c))/st.StddevAt(t, j, c))
				}
			}
		}
	}
	return em
}

//maskSw zeroes the switch weight for every padded slot. The builder
//already guarantees this; it is re-applied after an exclusion pass or a
//geometry rebuild changes the mask's provenance.
func maskSw(sw []float64, mask []bool) {
	for i := range sw {
		if !mask[i] {
			sw[i] = 0
		}
	}
}

//splitEnvMat separates the normalized environment matrix into the scalar
//edge input (first column) and the 3-component equivariant part.
func splitEnvMat(em *EnvMat) (edgeInput []float64, h2 *mat.Dense) {
	nrows, _ := em.Mat.Dims()
	edgeInput = make([]float64, nrows)
	h2 = mat.NewDense(nrows, 3, nil)
	for r := 0; r < nrows; r++ {
		edgeInput[r] = em.Mat.At(r, 0)
		if em.Width == 4 {
			h2.Set(r, 0, em.Mat.At(r, 1))
			h2.Set(r, 1, em.Mat.At(r, 2))
			h2.Set(r, 2, em.Mat.At(r, 3))
		}
	}
	return edgeInput, h2
}
