/*
 * frame.go, part of godesc
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

//frame.go assembles the per-atom equivariant frame: edge embeddings
//contracted against displacement vectors under the switch weight. Built
//purely from relative vectors and scalars, the frame rotates with the
//configuration.

package desc

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

//calFrameDense contracts in dense mode: a masked sum over the fixed
//neighbor axis, scaled by 1/sqrt(nnei). edge is (nf*nloc*nnei) x eDim and
//h2 its 3-component counterpart. The result is (nf*nloc*eDim) x 3:
//for every atom an eDim x 3 block, spatial dimension last.
func calFrameDense(edge, h2 *mat.Dense, mask []bool, sw []float64, nf, nloc, nnei int) *mat.Dense {
	rows, eDim := edge.Dims()
	if rows != nf*nloc*nnei || rows != len(sw) || rows != len(mask) {
		panic(ErrShape)
	}
	ret := mat.NewDense(nf*nloc*eDim, 3, nil)
	inv := 1 / math.Sqrt(float64(nnei))
	for a := 0; a < nf*nloc; a++ {
		for j := 0; j < nnei; j++ {
			r := a*nnei + j
			if !mask[r] {
				continue
			}
			w := sw[r] * inv
			for c := 0; c < eDim; c++ {
				g := edge.At(r, c) * w
				ret.Set(a*eDim+c, 0, ret.At(a*eDim+c, 0)+g*h2.At(r, 0))
				ret.Set(a*eDim+c, 1, ret.At(a*eDim+c, 1)+g*h2.At(r, 1))
				ret.Set(a*eDim+c, 2, ret.At(a*eDim+c, 2)+g*h2.At(r, 2))
			}
		}
	}
	return ret
}

//calFrameDynamic contracts in dynamic mode: a segment sum over the
//compacted edge list grouped by owner, scaled by
//sqrt(selReduceFactor/nnei) to keep the magnitude comparable with the
//dense normalization under larger selection capacities.
func calFrameDynamic(edge, h2 *mat.Dense, sw []float64, edges []EdgeIdx, nf, nloc, nnei int, selReduceFactor float64) *mat.Dense {
	rows, eDim := edge.Dims()
	if rows != len(edges) || rows != len(sw) {
		panic(ErrShape)
	}
	ret := mat.NewDense(nf*nloc*eDim, 3, nil)
	scale := math.Sqrt(selReduceFactor / float64(nnei))
	for r, e := range edges {
		w := sw[r] * scale
		for c := 0; c < eDim; c++ {
			g := edge.At(r, c) * w
			row := e.Owner*eDim + c
			ret.Set(row, 0, ret.At(row, 0)+g*h2.At(r, 0))
			ret.Set(row, 1, ret.At(row, 1)+g*h2.At(r, 1))
			ret.Set(row, 2, ret.At(row, 2)+g*h2.At(r, 2))
		}
	}
	return ret
}
