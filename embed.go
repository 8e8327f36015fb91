/*
 * embed.go, part of godesc
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

//embed.go turns scalar edge and angle inputs into the initial vector
//embeddings consumed by the first message-passing layer.

package desc

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

//edgeInit projects the scalar edge input to the edge embedding width.
//Three paths: the basis expansion of the raw distance times a polynomial
//envelope; the raw distance directly (no activation, to preserve the
//near-linear short-range response); or the normalized inverse-distance
//feature followed by the activation.
type edgeInit struct {
	proj     *Linear
	basis    *SinBasis
	envel    *PolyEnvelope
	act      Activation
	useDist  bool
	useBasis bool
}

func newEdgeInit(o *Options) *edgeInit {
	ret := new(edgeInit)
	ret.act = o.activation
	ret.useBasis = o.useBasis
	ret.useDist = o.edgeInitUseDist
	if ret.useBasis {
		//the basis path always works on the raw distance
		ret.useDist = true
		ret.basis = NewSinBasis(o.eRcut, o.basisSize, o.basisTrainable)
		ret.envel = NewPolyEnvelope(o.eRcut, 6)
		ret.proj = NewLinear(o.basisSize, o.eDim, true, childSeed(o.seed, 3))
	} else {
		ret.proj = NewLinear(1, o.eDim, true, childSeed(o.seed, 0))
	}
	return ret
}

//embed computes the initial edge embedding, one row per edge. scalar is
//the per-edge input of the active path: the raw distance when useDist is
//set, the normalized inverse-distance feature otherwise.
func (E *edgeInit) embed(scalar []float64) *mat.Dense {
	n := len(scalar)
	if E.useBasis {
		feats := mat.NewDense(n, E.basis.Size(), nil)
		row := make([]float64, E.basis.Size())
		for i, r := range scalar {
			E.basis.Expand(r, row)
			env := E.envel.Eval(r)
			for c := range row {
				feats.Set(i, c, row[c]*env)
			}
		}
		return E.proj.Apply(feats)
	}
	in := mat.NewDense(n, 1, scalar)
	out := E.proj.Apply(in)
	if !E.useDist {
		applyActivation(out, E.act)
	}
	return out
}

//angleInit is the bias-free projection of the rescaled cosine input to
//the angle embedding width. No activation is applied.
type angleInit struct {
	proj *Linear
}

func newAngleInit(o *Options) *angleInit {
	return &angleInit{proj: NewLinear(1, o.aDim, false, childSeed(o.seed, 1))}
}

//embed computes the initial angle embedding from the clamped cosines,
//rescaled by 1/sqrt(pi).
func (A *angleInit) embed(cos []float64) *mat.Dense {
	n := len(cos)
	in := mat.NewDense(n, 1, nil)
	s := 1 / math.Sqrt(math.Pi)
	for i, v := range cos {
		in.Set(i, 0, v*s)
	}
	return A.proj.Apply(in)
}
