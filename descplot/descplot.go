/*
 * descplot.go, part of godesc
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

//Package descplot draws diagnostic curves for descriptor configurations:
//switch functions, radial basis channels and smoothing envelopes. Handy
//when choosing cutoffs for a new system.
package descplot

import (
	"fmt"
	"image/color"

	"github.com/tkoskela/godesc"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const curveSamples = 400

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

func curveColor(key, steps int) color.RGBA {
	if steps < 2 {
		steps = 2
	}
	norm := 255.0 / float64(steps-1)
	b := uint8(float64(key) * norm)
	return color.RGBA{R: 255 - b, B: b, A: 255}
}

//SwitchPlot draws the weight of each given switch function between 0 and
//rCut, with the decay starting at rSmth. The png extension is appended to
//plotname. Returns an error or nil.
func SwitchPlot(switches []desc.Switch, rSmth, rCut float64, plotname string) error {
	if rCut <= 0 || rSmth >= rCut {
		return fmt.Errorf("SwitchPlot: need 0 < rSmth < rCut")
	}
	p := basicPlot("Switch functions", "r", "weight")
	p.Y.Min = 0
	p.Y.Max = 1.05
	for key, sw := range switches {
		pts := make(plotter.XYs, curveSamples)
		for k := range pts {
			r := rCut * 1.1 * float64(k) / float64(curveSamples-1)
			pts[k].X = r
			pts[k].Y = sw.Weight(r, rSmth, rCut)
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		l.LineStyle.Color = curveColor(key, len(switches))
		p.Add(l)
		p.Legend.Add(sw.String(), l)
	}
	filename := fmt.Sprintf("%s.png", plotname)
	return p.Save(5*vg.Inch, 5*vg.Inch, filename)
}

//BasisPlot draws every channel of a sine radial basis of the given size
//over (0, rCut], each channel damped by the polynomial envelope the
//embedding applies. Returns an error or nil.
func BasisPlot(rCut float64, size int, plotname string) error {
	if rCut <= 0 || size < 1 {
		return fmt.Errorf("BasisPlot: need rCut > 0 and at least one channel")
	}
	basis := desc.NewSinBasis(rCut, size, false)
	envel := desc.NewPolyEnvelope(rCut, 6)
	p := basicPlot("Radial basis", "r", "value")
	row := make([]float64, size)
	grid := make([]plotter.XYs, size)
	for c := range grid {
		grid[c] = make(plotter.XYs, curveSamples)
	}
	for k := 0; k < curveSamples; k++ {
		//skip r=0 itself; the basis is guarded there but uninteresting
		r := rCut * float64(k+1) / float64(curveSamples)
		basis.Expand(r, row)
		e := envel.Eval(r)
		for c := 0; c < size; c++ {
			grid[c][k].X = r
			grid[c][k].Y = row[c] * e
		}
	}
	for c := 0; c < size; c++ {
		l, err := plotter.NewLine(grid[c])
		if err != nil {
			return err
		}
		l.LineStyle.Color = curveColor(c, size)
		p.Add(l)
		p.Legend.Add(fmt.Sprintf("n=%d", c+1), l)
	}
	filename := fmt.Sprintf("%s.png", plotname)
	return p.Save(5*vg.Inch, 5*vg.Inch, filename)
}
