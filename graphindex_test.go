/*
 * graphindex_test.go, part of godesc
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
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestGraphIndex(Te *testing.T) {
	//two atoms, three slots each, with holes
	ind := []int{
		1, 2, PadSentinel,
		0, PadSentinel, PadSentinel,
	}
	nl := NewNeighborList(ind, 1, 2, 3)
	mask := nl.Mask()
	nl.zeroPadded()
	aMask := []bool{true, false, true, false} //aSel=2 per atom
	edges, angles := buildGraphIndex(nl, mask, aMask, 2, 3, false)
	wantEdges := []EdgeIdx{{0, 1}, {0, 2}, {1, 0}}
	if len(edges) != len(wantEdges) {
		Te.Fatalf("want %d edges, got %d", len(wantEdges), len(edges))
	}
	for i, e := range wantEdges {
		if edges[i] != e {
			Te.Errorf("edge %d: want %v got %v", i, e, edges[i])
		}
	}
	//owners must come out grouped and non-decreasing, so segment
	//reductions can run over contiguous runs
	for i := 1; i < len(edges); i++ {
		if edges[i].Owner < edges[i-1].Owner {
			Te.Error("edge owners are not grouped")
		}
	}
	wantAngles := []AngleIdx{{0, 0, 0}, {1, 2, 2}}
	if len(angles) != len(wantAngles) {
		Te.Fatalf("want %d angles, got %d", len(wantAngles), len(angles))
	}
	for i, a := range wantAngles {
		if angles[i] != a {
			Te.Errorf("angle %d: want %v got %v", i, a, angles[i])
		}
	}
}

func TestGraphIndexLocMapping(Te *testing.T) {
	ind := []int{
		1, PadSentinel,
		0, PadSentinel,
	}
	nl := NewNeighborList(ind, 1, 2, 2)
	mask := nl.Mask()
	nl.zeroPadded()
	aMask := []bool{true, false}
	//with local mapping the node index offsets by f*nloc instead of f*nall
	edges, _ := buildGraphIndex(nl, mask, aMask, 1, 5, true)
	if len(edges) != 2 || edges[0].Node != 1 || edges[1].Node != 0 {
		Te.Errorf("local-mapped node indices wrong: %v", edges)
	}
}

func TestCompaction(Te *testing.T) {
	mask := []bool{true, false, true, true, false}
	v := []float64{1, 2, 3, 4, 5}
	got := compactFloats(v, mask)
	want := []float64{1, 3, 4}
	if len(got) != len(want) {
		Te.Fatalf("wrong compacted length: %d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			Te.Errorf("compacted value %d: want %v got %v", i, want[i], got[i])
		}
	}
	m := mat.NewDense(5, 2, []float64{1, 10, 2, 20, 3, 30, 4, 40, 5, 50})
	cm := compactRows(m, mask)
	if r, c := cm.Dims(); r != 3 || c != 2 {
		Te.Fatalf("wrong compacted dims: %d x %d", r, c)
	}
	if cm.At(0, 1) != 10 || cm.At(1, 0) != 3 || cm.At(2, 1) != 40 {
		Te.Error("compacted rows out of order")
	}
}
