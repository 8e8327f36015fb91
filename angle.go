/*
 * angle.go, part of godesc
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

	"gonum.org/v1/gonum/mat"
)

const (
	//epsilon guarding the unit direction vectors against zero distances.
	angleUnitEps = 1e-6
	//keeps cosines away from +-1 so downstream inverse trigonometric
	//functions have finite gradients.
	cosineClamp = 1 - 1e-6
)

//AngleGeom is the geometry restricted to the angle neighbor subset: the
//reduced neighbor list, its validity mask, the switch weights evaluated at
//the angle cutoff, and the full pairwise cosine matrix for each center
//atom.
type AngleGeom struct {
	Nlist *NeighborList //nf x nloc x aSel, sentinel-padded
	Mask  []bool        //nf*nloc*aSel
	Sw    []float64     //nf*nloc*aSel, zero for invalid slots
	Cos   []float64     //nf*nloc*aSel*aSel, clamped cosines
	ASel  int
}

//buildAngleGeom derives the angle geometry from the edge pass. nl must
//still carry its sentinels (before zero padding) and edgeDiff must be the
//displacement produced with it; slots whose distance reaches the angle
//cutoff are masked out even if they passed the edge cutoff. A second
//environment pass at the angle cutoff provides the weights.
func buildAngleGeom(coords []*mat.Dense, nl *NeighborList, edgeDiff *mat.Dense, aSel int, aRcut, aRcutSmth, protection float64, swf Switch) *AngleGeom {
	nf, nloc, nnei := nl.Dims()
	anl := nl.Prefix(aSel)
	for f := 0; f < nf; f++ {
		for i := 0; i < nloc; i++ {
			for j := 0; j < aSel; j++ {
				r := (f*nloc+i)*nnei + j
				dx := edgeDiff.At(r, 0)
				dy := edgeDiff.At(r, 1)
				dz := edgeDiff.At(r, 2)
				if math.Sqrt(dx*dx+dy*dy+dz*dz) >= aRcut {
					anl.Set(f, i, j, PadSentinel)
				}
			}
		}
	}
	aem := buildEnvMat(coords, anl, aRcut, aRcutSmth, true, protection, swf)
	mask := anl.Mask()
	maskSw(aem.Sw, mask)

	//unit direction vectors for every valid angle slot
	unit := mat.NewDense(nf*nloc*aSel, 3, nil)
	for r := 0; r < nf*nloc*aSel; r++ {
		dx := aem.Diff.At(r, 0)
		dy := aem.Diff.At(r, 1)
		dz := aem.Diff.At(r, 2)
		den := math.Sqrt(dx*dx+dy*dy+dz*dz) + angleUnitEps
		unit.Set(r, 0, dx/den)
		unit.Set(r, 1, dy/den)
		unit.Set(r, 2, dz/den)
	}
	cos := make([]float64, nf*nloc*aSel*aSel)
	for f := 0; f < nf; f++ {
		for i := 0; i < nloc; i++ {
			base := (f*nloc + i) * aSel
			for a := 0; a < aSel; a++ {
				for b := 0; b < aSel; b++ {
					dot := unit.At(base+a, 0)*unit.At(base+b, 0) +
						unit.At(base+a, 1)*unit.At(base+b, 1) +
						unit.At(base+a, 2)*unit.At(base+b, 2)
					cos[(base+a)*aSel+b] = dot * cosineClamp
				}
			}
		}
	}
	return &AngleGeom{Nlist: anl, Mask: mask, Sw: aem.Sw, Cos: cos, ASel: aSel}
}

//PairWeight returns the combined switch weight of the angle pair (a,b) of
//atom (f,i): the product of the two slot weights, zero unless both slots
//are valid.
func (G *AngleGeom) PairWeight(nloc int, f, i, a, b int) float64 {
	base := (f*nloc + i) * G.ASel
	return G.Sw[base+a] * G.Sw[base+b]
}

//PairValid reports whether both slots of the angle pair are real neighbors
//within the angle cutoff.
func (G *AngleGeom) PairValid(nloc int, f, i, a, b int) bool {
	base := (f*nloc + i) * G.ASel
	return G.Mask[base+a] && G.Mask[base+b]
}
