/*
 * basis.go, part of godesc
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

//guard against division by zero at r=0 in the basis evaluation.
const basisEps = 1e-8

//SinBasis expands a distance into oscillatory radial basis functions
//sin(n*pi*r/rc)/r, n=1..size, with a 2/rc prefactor. The frequency
//coefficients are parameters: they may be updated by training when marked
//trainable, or stay fixed at their initialization.
type SinBasis struct {
	Coeffs    []float64
	prefactor float64
	trainable bool
}

//NewSinBasis returns a basis of the given size for the cutoff length rc.
func NewSinBasis(rc float64, size int, trainable bool) *SinBasis {
	coeffs := make([]float64, size)
	for n := range coeffs {
		coeffs[n] = float64(n+1) * math.Pi / rc
	}
	return &SinBasis{Coeffs: coeffs, prefactor: 2.0 / rc, trainable: trainable}
}

//Size returns the number of basis functions.
func (B *SinBasis) Size() int { return len(B.Coeffs) }

//Trainable reports whether the frequency coefficients are trainable.
func (B *SinBasis) Trainable() bool { return B.trainable }

//Expand evaluates every basis function at distance r into dst, which must
//have Size entries.
func (B *SinBasis) Expand(r float64, dst []float64) {
	if len(dst) != len(B.Coeffs) {
		panic(ErrShape)
	}
	for n, c := range B.Coeffs {
		dst[n] = B.prefactor * math.Sin(c*r) / (r + basisEps)
	}
}

//PolyEnvelope is the polynomial cutoff envelope multiplying the basis
//expansion. It is distinct from the switch functions: its degree p is
//adjustable and it decays over the whole [0, rc] range,
//1 - c0 u^p + c1 u^(p+1) - c2 u^(p+2) with u = r/rc.
type PolyEnvelope struct {
	rc         float64
	p          float64
	c0, c1, c2 float64
}

//NewPolyEnvelope returns an envelope of degree p for the cutoff rc.
func NewPolyEnvelope(rc float64, p int) *PolyEnvelope {
	fp := float64(p)
	return &PolyEnvelope{
		rc: rc,
		p:  fp,
		c0: (fp + 1) * (fp + 2) / 2,
		c1: fp * (fp + 2),
		c2: fp * (fp + 1) / 2,
	}
}

//Eval evaluates the envelope at distance r.
func (E *PolyEnvelope) Eval(r float64) float64 {
	u := r / E.rc
	return 1 - E.c0*math.Pow(u, E.p) + E.c1*math.Pow(u, E.p+1) - E.c2*math.Pow(u, E.p+2)
}
