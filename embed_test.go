/*
 * embed_test.go, part of godesc
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

func TestEdgeInitShapes(Te *testing.T) {
	o := DefaultOptions()
	o.EDim(6)
	e := newEdgeInit(o)
	out := e.embed([]float64{0.1, 0.5, 0.9})
	if r, c := out.Dims(); r != 3 || c != 6 {
		Te.Errorf("wrong embedding dims: %d x %d", r, c)
	}
}

func TestEdgeInitBasis(Te *testing.T) {
	o := DefaultOptions()
	o.EDim(6)
	o.BasisSize(4)
	o.UseBasis(true)
	e := newEdgeInit(o)
	if !e.useDist {
		Te.Error("the basis path must work on the raw distance")
	}
	out := e.embed([]float64{1.0, 3.0})
	if r, c := out.Dims(); r != 2 || c != 6 {
		Te.Errorf("wrong embedding dims: %d x %d", r, c)
	}
	for r := 0; r < 2; r++ {
		for c := 0; c < 6; c++ {
			if v := out.At(r, c); math.IsNaN(v) || math.IsInf(v, 0) {
				Te.Errorf("basis embedding not finite at (%d,%d)", r, c)
			}
		}
	}
}

//TestAngleInitLinear checks that the angle embedding is a bias-free
//linear map of the rescaled cosine: doubling the input doubles the
//output.
func TestAngleInitLinear(Te *testing.T) {
	o := DefaultOptions()
	o.ADim(5)
	a := newAngleInit(o)
	one := a.embed([]float64{0.4})
	two := a.embed([]float64{0.8})
	for c := 0; c < 5; c++ {
		if math.Abs(two.At(0, c)-2*one.At(0, c)) > 1e-12 {
			Te.Errorf("angle embedding is not linear at col %d", c)
		}
	}
}
