/*
 * exclude.go, part of godesc
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

//PairMask forces selected element-type pairs to have no interaction by
//turning their neighbor-list entries back into padding before any
//geometry is built. The exclusion is symmetric.
type PairMask struct {
	ntypes int
	nomix  [][]bool
}

//NewPairMask builds the mask for ntypes element types from the excluded
//pairs. Pairs referencing unknown types panic: the exclusion list is part
//of the configuration and must agree with the type count.
func NewPairMask(ntypes int, pairs [][2]int) *PairMask {
	nomix := make([][]bool, ntypes)
	for i := range nomix {
		nomix[i] = make([]bool, ntypes)
	}
	for _, p := range pairs {
		if p[0] >= ntypes || p[1] >= ntypes || p[0] < 0 || p[1] < 0 {
			panic(ErrBadIndex)
		}
		nomix[p[0]][p[1]] = true
		nomix[p[1]][p[0]] = true
	}
	return &PairMask{ntypes: ntypes, nomix: nomix}
}

//Excluded reports whether types a and b are forbidden to interact.
func (P *PairMask) Excluded(a, b int) bool {
	return P.nomix[a][b]
}

//Any reports whether the mask excludes anything at all.
func (P *PairMask) Any() bool {
	for _, row := range P.nomix {
		for _, v := range row {
			if v {
				return true
			}
		}
	}
	return false
}

//Apply returns a copy of nl where every neighbor whose (center, neighbor)
//type pair is excluded has been replaced by the padding sentinel.
//extAtype gives the element type of every extended atom per frame; the
//center types are its local prefix.
func (P *PairMask) Apply(nl *NeighborList, extAtype [][]int) *NeighborList {
	ret := nl.Clone()
	if !P.Any() {
		return ret
	}
	nf, nloc, nnei := nl.Dims()
	for f := 0; f < nf; f++ {
		for i := 0; i < nloc; i++ {
			ti := extAtype[f][i]
			for j := 0; j < nnei; j++ {
				idx := ret.At(f, i, j)
				if idx == PadSentinel {
					continue
				}
				if P.nomix[ti][extAtype[f][idx]] {
					ret.Set(f, i, j, PadSentinel)
				}
			}
		}
	}
	return ret
}
