/*
 * envmat_test.go, part of godesc
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
	"testing"

	"gonum.org/v1/gonum/mat"
)

//a dimer at distance 1.5 along x, with one padded slot per atom.
func pairSystem() ([]*mat.Dense, *NeighborList) {
	coords := []*mat.Dense{mat.NewDense(2, 3, []float64{
		0, 0, 0,
		1.5, 0, 0,
	})}
	ind := []int{
		1, PadSentinel, PadSentinel,
		0, PadSentinel, PadSentinel,
	}
	return coords, NewNeighborList(ind, 1, 2, 3)
}

//a rotation built from two elementary rotations, as a row-vector operator.
func testRotation() *mat.Dense {
	a, b := math.Pi/7, math.Pi/5
	ca, sa := math.Cos(a), math.Sin(a)
	cb, sb := math.Cos(b), math.Sin(b)
	rz := mat.NewDense(3, 3, []float64{ca, -sa, 0, sa, ca, 0, 0, 0, 1})
	rx := mat.NewDense(3, 3, []float64{1, 0, 0, 0, cb, -sb, 0, sb, cb})
	r := mat.NewDense(3, 3, nil)
	r.Mul(rz, rx)
	return r
}

func TestEnvMatPair(Te *testing.T) {
	coords, nl := pairSystem()
	em := buildEnvMat(coords, nl, 6.0, 5.0, false, 0, PolySwitch)
	wantSw := []float64{1, 0, 0, 1, 0, 0}
	for i, w := range wantSw {
		if em.Sw[i] != w {
			Te.Errorf("switch weight %d: want %v got %v", i, w, em.Sw[i])
		}
	}
	//neighbor at r=1.5 straight along x: [1/r, x/r^2, 0, 0]
	inv := 1 / 1.5
	want0 := []float64{inv, inv, 0, 0}
	want3 := []float64{inv, -inv, 0, 0}
	for c := 0; c < 4; c++ {
		if v := em.Mat.At(0, c); math.Abs(v-want0[c]) > 1e-12 {
			Te.Errorf("row 0 col %d: want %v got %v", c, want0[c], v)
		}
		if v := em.Mat.At(3, c); math.Abs(v-want3[c]) > 1e-12 {
			Te.Errorf("row 3 col %d: want %v got %v", c, want3[c], v)
		}
	}
	//padded slots must contribute nothing at all
	for _, r := range []int{1, 2, 4, 5} {
		for c := 0; c < 4; c++ {
			if em.Mat.At(r, c) != 0 {
				Te.Errorf("padded row %d col %d is nonzero", r, c)
			}
		}
		for c := 0; c < 3; c++ {
			if em.Diff.At(r, c) != 0 {
				Te.Errorf("padded row %d has a nonzero displacement", r)
			}
		}
	}
	if em.Diff.At(0, 0) != 1.5 || em.Diff.At(3, 0) != -1.5 {
		Te.Errorf("displacement mismatch: %v %v", em.Diff.At(0, 0), em.Diff.At(3, 0))
	}
}

//TestEnvMatIsolated checks that an atom with no neighbors produces an
//all-zero environment: the synthetic padding atom can never pass the
//cutoff, and nothing divides by zero on the way.
func TestEnvMatIsolated(Te *testing.T) {
	coords := []*mat.Dense{mat.NewDense(1, 3, []float64{0, 0, 0})}
	ind := []int{PadSentinel, PadSentinel}
	nl := NewNeighborList(ind, 1, 1, 2)
	em := buildEnvMat(coords, nl, 6.0, 5.0, false, 0, PolySwitch)
	for r := 0; r < 2; r++ {
		if em.Sw[r] != 0 {
			Te.Errorf("isolated atom has a nonzero switch weight at slot %d", r)
		}
		for c := 0; c < 4; c++ {
			v := em.Mat.At(r, c)
			if v != 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				Te.Errorf("isolated atom environment not clean at (%d,%d): %v", r, c, v)
			}
		}
	}
}

func TestEnvMatTranslation(Te *testing.T) {
	coords, nl := pairSystem()
	em1 := buildEnvMat(coords, nl, 6.0, 5.0, false, 0, PolySwitch)
	shifted := mat.DenseCopyOf(coords[0])
	for r := 0; r < 2; r++ {
		shifted.Set(r, 0, shifted.At(r, 0)+10)
		shifted.Set(r, 1, shifted.At(r, 1)-3)
		shifted.Set(r, 2, shifted.At(r, 2)+0.25)
	}
	em2 := buildEnvMat([]*mat.Dense{shifted}, nl, 6.0, 5.0, false, 0, PolySwitch)
	if !mat.Equal(em1.Mat, em2.Mat) {
		Te.Error("the environment matrix is not translation invariant")
	}
	if !mat.Equal(em1.Diff, em2.Diff) {
		Te.Error("the displacements are not translation invariant")
	}
}

func TestEnvMatRotation(Te *testing.T) {
	coords, nl := pairSystem()
	em1 := buildEnvMat(coords, nl, 6.0, 5.0, false, 0, PolySwitch)
	rot := testRotation()
	rc := mat.NewDense(2, 3, nil)
	rc.Mul(coords[0], rot.T())
	em2 := buildEnvMat([]*mat.Dense{rc}, nl, 6.0, 5.0, false, 0, PolySwitch)
	//the radial column is invariant, the displacement rotates along
	for r := 0; r < 6; r++ {
		if math.Abs(em1.Mat.At(r, 0)-em2.Mat.At(r, 0)) > 1e-12 {
			Te.Errorf("radial feature changed under rotation at row %d", r)
		}
	}
	wantDiff := mat.NewDense(6, 3, nil)
	wantDiff.Mul(em1.Diff, rot.T())
	if !mat.EqualApprox(wantDiff, em2.Diff, 1e-12) {
		Te.Error("the displacements do not rotate with the system")
	}
}

func TestProdEnvMatNormalization(Te *testing.T) {
	coords, nl := pairSystem()
	raw := buildEnvMat(coords, nl, 6.0, 5.0, false, 0, PolySwitch)
	st := ConstantStats(2, 3, 0.3)
	norm := ProdEnvMat(coords, nl, [][]int{{0, 1}}, st, 6.0, 5.0, false, 0, PolySwitch)
	for r := 0; r < 6; r++ {
		for c := 0; c < 4; c++ {
			want := raw.Mat.At(r, c) / 0.3
			if v := norm.Mat.At(r, c); math.Abs(v-want) > 1e-12 {
				Te.Errorf("normalization mismatch at (%d,%d): want %v got %v", r, c, want, v)
			}
		}
	}
}

//TestProdEnvMatNonzeroMean checks the full affine normalization: with
//per-entry means and deviations, de-normalizing the output must recover
//the raw matrix on the real neighbor slots.
func TestProdEnvMatNonzeroMean(Te *testing.T) {
	coords, nl := pairSystem()
	raw := buildEnvMat(coords, nl, 6.0, 5.0, false, 0, PolySwitch)
	st := ConstantStats(2, 3, 1)
	for i := range st.Mean {
		st.Mean[i] = 0.01 * float64(i+1)
		st.Stddev[i] = 0.2 + 0.05*float64(i)
	}
	atype := [][]int{{0, 1}}
	norm := ProdEnvMat(coords, nl, atype, st, 6.0, 5.0, false, 0, PolySwitch)
	//the real slots: slot 0 of atom 0 (type 0) and slot 0 of atom 1 (type 1)
	for _, rc := range [][2]int{{0, 0}, {3, 1}} {
		r, t := rc[0], rc[1]
		for c := 0; c < 4; c++ {
			back := norm.Mat.At(r, c)*st.StddevAt(t, 0, c) + st.MeanAt(t, 0, c)
			if math.Abs(back-raw.Mat.At(r, c)) > 1e-12 {
				Te.Errorf("round trip mismatch at (%d,%d): want %v got %v", r, c, raw.Mat.At(r, c), back)
			}
		}
	}
}

func TestSplitEnvMat(Te *testing.T) {
	coords, nl := pairSystem()
	em := buildEnvMat(coords, nl, 6.0, 5.0, false, 0, PolySwitch)
	edgeInput, h2 := splitEnvMat(em)
	if len(edgeInput) != 6 {
		Te.Fatalf("wrong edge input length: %d", len(edgeInput))
	}
	for r := 0; r < 6; r++ {
		if edgeInput[r] != em.Mat.At(r, 0) {
			Te.Errorf("edge input mismatch at row %d", r)
		}
		for c := 0; c < 3; c++ {
			if h2.At(r, c) != em.Mat.At(r, c+1) {
				Te.Errorf("equivariant part mismatch at (%d,%d)", r, c)
			}
		}
	}
}

//TestEnvMatDecayWindow places one neighbor inside the decay window and one
//beyond the cutoff: the first is scaled by the midpoint weight, the second
//contributes nothing despite being listed.
func TestEnvMatDecayWindow(Te *testing.T) {
	coords := []*mat.Dense{mat.NewDense(3, 3, []float64{
		0, 0, 0,
		5.5, 0, 0,
		6.2, 0, 0,
	})}
	ind := []int{1, 2}
	nl := NewNeighborList(ind, 1, 1, 2)
	em := buildEnvMat(coords, nl, 6.0, 5.0, false, 0, PolySwitch)
	if w := em.Sw[0]; math.Abs(w-0.5) > 1e-12 {
		Te.Errorf("midpoint edge weight should be 0.5, got %v", w)
	}
	if v := em.Mat.At(0, 0); math.Abs(v-0.5/5.5) > 1e-12 {
		Te.Errorf("radial feature should carry the switch weight, got %v", v)
	}
	if em.Sw[1] != 0 {
		Te.Errorf("a listed neighbor beyond the cutoff should have zero weight, got %v", em.Sw[1])
	}
	for c := 0; c < 4; c++ {
		if em.Mat.At(1, c) != 0 {
			Te.Errorf("a neighbor beyond the cutoff should contribute nothing (col %d)", c)
		}
	}
	//the displacement is still reported for the out-of-range neighbor:
	//it is a real listed atom, only its weight vanishes
	if em.Diff.At(1, 0) != 6.2 {
		Te.Errorf("wrong displacement for the out-of-range neighbor: %v", em.Diff.At(1, 0))
	}
}

func TestProtectionKeepsFinite(Te *testing.T) {
	//two atoms at the same position: without protection this would divide
	//by zero
	coords := []*mat.Dense{mat.NewDense(2, 3, []float64{0, 0, 0, 0, 0, 0})}
	ind := []int{1, 0}
	nl := NewNeighborList(ind, 1, 2, 1)
	em := buildEnvMat(coords, nl, 6.0, 5.0, false, 1e-2, PolySwitch)
	for r := 0; r < 2; r++ {
		for c := 0; c < 4; c++ {
			if v := em.Mat.At(r, c); math.IsNaN(v) || math.IsInf(v, 0) {
				Te.Errorf("protected environment not finite at (%d,%d): %v", r, c, v)
			}
		}
	}
}
