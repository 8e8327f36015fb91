/*
 * graphindex.go, part of godesc
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

//graphindex.go compacts the dense padded neighbor structure into flat
//sparse edge and angle lists for dynamic selection mode, where padding a
//fixed neighbor capacity would waste most of the work.

package desc

import "gonum.org/v1/gonum/mat"

//EdgeIdx locates one compacted edge: the flat (frame*nloc+atom) index of
//the owning center atom, and the flat index of the neighbor node in the
//node embedding layout of the current mode.
type EdgeIdx struct {
	Owner int
	Node  int
}

//AngleIdx locates one compacted angle: the owning center atom and the
//compacted edge positions of its two neighbor slots.
type AngleIdx struct {
	Owner int
	EdgeI int
	EdgeJ int
}

//buildGraphIndex produces the sparse edge and angle index tables from the
//dense masks. nl must already be zero-padded and, when useLocMapping is
//set, remapped to local indices; mask and aMask are the validity masks
//recorded before padding. Compaction preserves the row-major (frame, atom,
//slot) grouping of the dense form, so segment reductions over Owner see
//contiguous runs.
func buildGraphIndex(nl *NeighborList, mask, aMask []bool, aSel, nall int, useLocMapping bool) ([]EdgeIdx, []AngleIdx) {
	nf, nloc, nnei := nl.Dims()
	edges := make([]EdgeIdx, 0, countTrue(mask))
	//compacted edge position for every dense slot, -1 where padded
	edgePos := make([]int, nf*nloc*nnei)
	for f := 0; f < nf; f++ {
		for i := 0; i < nloc; i++ {
			for j := 0; j < nnei; j++ {
				r := (f*nloc+i)*nnei + j
				if !mask[r] {
					edgePos[r] = -1
					continue
				}
				node := nl.At(f, i, j)
				if useLocMapping {
					node += f * nloc
				} else {
					node += f * nall
				}
				edgePos[r] = len(edges)
				edges = append(edges, EdgeIdx{Owner: f*nloc + i, Node: node})
			}
		}
	}
	angles := make([]AngleIdx, 0, countTrue(aMask))
	for f := 0; f < nf; f++ {
		for i := 0; i < nloc; i++ {
			base := (f*nloc + i) * aSel
			for a := 0; a < aSel; a++ {
				if !aMask[base+a] {
					continue
				}
				for b := 0; b < aSel; b++ {
					if !aMask[base+b] {
						continue
					}
					//angle slots are a prefix of the edge slots, so both
					//edges exist in the compacted list
					ra := (f*nloc+i)*nnei + a
					rb := (f*nloc+i)*nnei + b
					angles = append(angles, AngleIdx{Owner: f*nloc + i, EdgeI: edgePos[ra], EdgeJ: edgePos[rb]})
				}
			}
		}
	}
	return edges, angles
}

func countTrue(mask []bool) int {
	n := 0
	for _, m := range mask {
		if m {
			n++
		}
	}
	return n
}

//compactRows returns the rows of m whose mask entry is true, in order.
func compactRows(m *mat.Dense, mask []bool) *mat.Dense {
	rows, cols := m.Dims()
	if rows != len(mask) {
		panic(ErrShape)
	}
	ret := mat.NewDense(countTrue(mask), cols, nil)
	n := 0
	for r := 0; r < rows; r++ {
		if !mask[r] {
			continue
		}
		for c := 0; c < cols; c++ {
			ret.Set(n, c, m.At(r, c))
		}
		n++
	}
	return ret
}

//compactFloats returns the entries of v whose mask entry is true, in order.
func compactFloats(v []float64, mask []bool) []float64 {
	if len(v) != len(mask) {
		panic(ErrShape)
	}
	ret := make([]float64, 0, countTrue(mask))
	for i, m := range mask {
		if m {
			ret = append(ret, v[i])
		}
	}
	return ret
}
