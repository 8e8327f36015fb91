/*
 * switchfn.go, part of godesc
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

import "math"

//Switch selects the smooth cutoff function applied to every neighbor
//contribution. The set is closed: there are exactly two supported
//variants.
type Switch int

const (
	//PolySwitch is a quintic polynomial blend: 1 below the smoothing
	//radius, 0 at and beyond the cutoff, C1-continuous at both ends.
	PolySwitch Switch = iota
	//ExpSwitch is a double exponential, exp(-exp(k(r-rs)/rs)) with k=20,
	//clamped to 0 beyond the cutoff. It has no flat inner plateau, so the
	//smoothing radius must be chosen together with the cutoff (e.g. 5.3
	//for a 6.0 cutoff) for the weight to reach ~0 at the boundary.
	ExpSwitch
)

//steepness of the exponential switch.
const expSwitchK = 20.0

//Weight evaluates the switch function at distance r, decaying from 1 to 0
//between rSmth and rCut. The returned value is always in [0,1] and is
//exactly 0 for r>=rCut (PolySwitch) or r>rCut (ExpSwitch, which is
//vanishingly small but not identically zero right at the boundary).
func (s Switch) Weight(r, rSmth, rCut float64) float64 {
	switch s {
	case ExpSwitch:
		if r > rCut {
			return 0
		}
		return math.Exp(-math.Exp(expSwitchK * (r - rSmth) / rSmth))
	default:
		if r <= rSmth {
			return 1
		}
		if r >= rCut {
			return 0
		}
		uu := (r - rSmth) / (rCut - rSmth)
		return uu*uu*uu*(-6*uu*uu+15*uu-10) + 1
	}
}

//String returns the name of the switch variant.
func (s Switch) String() string {
	if s == ExpSwitch {
		return "exp"
	}
	return "poly"
}

//Activation selects the nonlinearity used when initializing embeddings.
type Activation int

const (
	//SiLU is x*sigmoid(x), the default.
	SiLU Activation = iota
	//Tanh is the hyperbolic tangent.
	Tanh
	//NoActivation applies the identity.
	NoActivation
)

//Eval applies the activation to a scalar.
func (a Activation) Eval(x float64) float64 {
	switch a {
	case Tanh:
		return math.Tanh(x)
	case NoActivation:
		return x
	default:
		return x / (1 + math.Exp(-x))
	}
}

//String returns the name of the activation.
func (a Activation) String() string {
	switch a {
	case Tanh:
		return "tanh"
	case NoActivation:
		return "none"
	default:
		return "silu"
	}
}
