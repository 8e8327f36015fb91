/*
 * basis_test.go, part of godesc
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
)

func TestSinBasis(Te *testing.T) {
	rc := 6.0
	b := NewSinBasis(rc, 3, false)
	if b.Size() != 3 {
		Te.Fatalf("wrong basis size: %d", b.Size())
	}
	if b.Trainable() {
		Te.Error("basis should not be trainable here")
	}
	dst := make([]float64, 3)
	r := 1.0
	b.Expand(r, dst)
	for n := 0; n < 3; n++ {
		want := 2.0 / rc * math.Sin(float64(n+1)*math.Pi*r/rc) / (r + 1e-8)
		if math.Abs(dst[n]-want) > 1e-12 {
			Te.Errorf("basis value %d: want %v got %v", n, want, dst[n])
		}
	}
	//near r=0 the guard keeps everything finite; sin(cr)/r tends to c
	b.Expand(1e-12, dst)
	for n, v := range dst {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			Te.Errorf("basis value %d not finite near zero: %v", n, v)
		}
	}
}

func TestPolyEnvelope(Te *testing.T) {
	rc := 6.0
	e := NewPolyEnvelope(rc, 6)
	if v := e.Eval(0); v != 1 {
		Te.Errorf("envelope at 0 should be 1, got %v", v)
	}
	if v := e.Eval(rc); math.Abs(v) > 1e-12 {
		Te.Errorf("envelope at the cutoff should vanish, got %v", v)
	}
	prev := 1.0
	for r := 0.0; r <= rc; r += 0.05 {
		v := e.Eval(r)
		if v < -1e-12 || v > 1+1e-12 {
			Te.Errorf("envelope out of [0,1] at r=%v: %v", r, v)
		}
		if v > prev+1e-12 {
			Te.Errorf("envelope not monotone at r=%v", r)
		}
		prev = v
	}
}
