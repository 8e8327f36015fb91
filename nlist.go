/*
 * nlist.go, part of godesc
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

//PadSentinel marks an empty neighbor slot in a padded neighbor list.
const PadSentinel = -1

//NeighborList is a fixed-capacity padded neighbor list for a batch of
//frames. Each of the nf*nloc*nnei entries is either an index into the
//extended atom region of its frame or PadSentinel. The neighbor axis is
//not guaranteed to be distance-sorted, except that the first slots are the
//candidates for angle construction.
type NeighborList struct {
	ind            []int
	nf, nloc, nnei int
}

//NewNeighborList wraps ind, which must have nf*nloc*nnei entries laid out
//row-major (frame, atom, slot). The slice is not copied.
func NewNeighborList(ind []int, nf, nloc, nnei int) *NeighborList {
	if len(ind) != nf*nloc*nnei {
		panic(ErrShape)
	}
	return &NeighborList{ind: ind, nf: nf, nloc: nloc, nnei: nnei}
}

//Dims returns the number of frames, local atoms and neighbor slots.
func (N *NeighborList) Dims() (int, int, int) {
	return N.nf, N.nloc, N.nnei
}

//At returns the neighbor index stored for (frame, atom, slot).
func (N *NeighborList) At(f, i, j int) int {
	return N.ind[(f*N.nloc+i)*N.nnei+j]
}

//Set stores a neighbor index for (frame, atom, slot).
func (N *NeighborList) Set(f, i, j, v int) {
	N.ind[(f*N.nloc+i)*N.nnei+j] = v
}

//Clone returns a deep copy of the list.
func (N *NeighborList) Clone() *NeighborList {
	ind := make([]int, len(N.ind))
	copy(ind, N.ind)
	return &NeighborList{ind: ind, nf: N.nf, nloc: N.nloc, nnei: N.nnei}
}

//Prefix returns a deep copy restricted to the first n neighbor slots.
func (N *NeighborList) Prefix(n int) *NeighborList {
	if n > N.nnei {
		panic(ErrShape)
	}
	ind := make([]int, N.nf*N.nloc*n)
	for f := 0; f < N.nf; f++ {
		for i := 0; i < N.nloc; i++ {
			for j := 0; j < n; j++ {
				ind[(f*N.nloc+i)*n+j] = N.At(f, i, j)
			}
		}
	}
	return &NeighborList{ind: ind, nf: N.nf, nloc: N.nloc, nnei: n}
}

//Mask returns a flat slice with true for every real (non-padded) slot.
func (N *NeighborList) Mask() []bool {
	ret := make([]bool, len(N.ind))
	for i, v := range N.ind {
		ret[i] = v != PadSentinel
	}
	return ret
}

//zeroPadded replaces every sentinel by index 0, so the list can be used
//for gathering without branch checks. Whether a slot is real must then be
//tracked by a mask obtained before the call.
func (N *NeighborList) zeroPadded() {
	for i, v := range N.ind {
		if v == PadSentinel {
			N.ind[i] = 0
		}
	}
}
