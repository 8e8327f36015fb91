/*
 * options.go, part of godesc
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

import "fmt"

//Options holds every configuration knob of the descriptor block. Use
//DefaultOptions to obtain a sane set and the accessor methods to adjust it.
//Each accessor returns the current value and, if an argument is given,
//sets the new value.
type Options struct {
	eRcut            float64
	eRcutSmth        float64
	eSel             int
	aRcut            float64
	aRcutSmth        float64
	aSel             int
	nDim             int
	eDim             int
	aDim             int
	aCompressRate    int
	aCompressERate   int
	switchFn         Switch
	activation       Activation
	dynamicSel       bool
	selReduceFactor  float64
	smoothEdgeUpdate bool
	edgeInitUseDist  bool
	useBasis         bool
	basisSize        int
	basisTrainable   bool
	coordUpdate      bool
	coordsAgg        string
	useLocMapping    bool
	protection       float64
	excludeTypes     [][2]int
	fixStatStd       float64
	setDavgZero      bool
	seed             int64
}

//DefaultOptions returns an Options with the default settings.
func DefaultOptions() *Options {
	ret := new(Options)
	ret.eRcut = 6.0
	ret.eRcutSmth = 5.0
	ret.eSel = 120
	ret.aRcut = 4.0
	ret.aRcutSmth = 3.5
	ret.aSel = 20
	ret.nDim = 128
	ret.eDim = 64
	ret.aDim = 64
	ret.aCompressRate = 0
	ret.aCompressERate = 1
	ret.switchFn = PolySwitch
	ret.activation = SiLU
	ret.dynamicSel = false
	ret.selReduceFactor = 10.0
	ret.smoothEdgeUpdate = false
	ret.edgeInitUseDist = false
	ret.useBasis = false
	ret.basisSize = 8
	ret.basisTrainable = true
	ret.coordUpdate = false
	ret.coordsAgg = "mean"
	ret.useLocMapping = true
	ret.protection = 0.0
	ret.fixStatStd = 0.3
	ret.setDavgZero = true
	ret.seed = 0
	return ret
}

//ERcut returns the edge cutoff radius and sets it, if a valid value is given.
func (o *Options) ERcut(rc ...float64) float64 {
	ret := o.eRcut
	if len(rc) > 0 && rc[0] > 0 {
		o.eRcut = rc[0]
	}
	return ret
}

//ERcutSmth returns the radius where the edge switch function starts to decay
//and sets it, if a valid value is given.
func (o *Options) ERcutSmth(rs ...float64) float64 {
	ret := o.eRcutSmth
	if len(rs) > 0 && rs[0] > 0 {
		o.eRcutSmth = rs[0]
	}
	return ret
}

//ESel returns the edge neighbor selection count and sets it, if a valid
//value is given.
func (o *Options) ESel(s ...int) int {
	ret := o.eSel
	if len(s) > 0 && s[0] > 0 {
		o.eSel = s[0]
	}
	return ret
}

//ARcut returns the angle cutoff radius and sets it, if a valid value is given.
func (o *Options) ARcut(rc ...float64) float64 {
	ret := o.aRcut
	if len(rc) > 0 && rc[0] > 0 {
		o.aRcut = rc[0]
	}
	return ret
}

//ARcutSmth returns the radius where the angle switch function starts to
//decay and sets it, if a valid value is given.
func (o *Options) ARcutSmth(rs ...float64) float64 {
	ret := o.aRcutSmth
	if len(rs) > 0 && rs[0] > 0 {
		o.aRcutSmth = rs[0]
	}
	return ret
}

//ASel returns the angle neighbor selection count and sets it, if a valid
//value is given.
func (o *Options) ASel(s ...int) int {
	ret := o.aSel
	if len(s) > 0 && s[0] > 0 {
		o.aSel = s[0]
	}
	return ret
}

//NDim returns the node embedding width and sets it, if a valid value is given.
func (o *Options) NDim(d ...int) int {
	ret := o.nDim
	if len(d) > 0 && d[0] > 0 {
		o.nDim = d[0]
	}
	return ret
}

//EDim returns the edge embedding width and sets it, if a valid value is given.
func (o *Options) EDim(d ...int) int {
	ret := o.eDim
	if len(d) > 0 && d[0] > 0 {
		o.eDim = d[0]
	}
	return ret
}

//ADim returns the angle embedding width and sets it, if a valid value is given.
func (o *Options) ADim(d ...int) int {
	ret := o.aDim
	if len(d) > 0 && d[0] > 0 {
		o.aDim = d[0]
	}
	return ret
}

//ACompressRate returns the angular message compression rate (0 means no
//compression) and sets it, if a non-negative value is given. The value is
//consumed by the message-passing layers, not by the block itself.
func (o *Options) ACompressRate(c ...int) int {
	ret := o.aCompressRate
	if len(c) > 0 && c[0] >= 0 {
		o.aCompressRate = c[0]
	}
	return ret
}

//ACompressERate returns the extra edge compression rate used together with
//ACompressRate and sets it, if a valid value is given.
func (o *Options) ACompressERate(c ...int) int {
	ret := o.aCompressERate
	if len(c) > 0 && c[0] > 0 {
		o.aCompressERate = c[0]
	}
	return ret
}

//SwitchFn returns the switch function variant and sets it, if one is given.
func (o *Options) SwitchFn(s ...Switch) Switch {
	ret := o.switchFn
	if len(s) > 0 {
		o.switchFn = s[0]
	}
	return ret
}

//ActivationFn returns the activation used by the embedding initializers
//and sets it, if one is given.
func (o *Options) ActivationFn(a ...Activation) Activation {
	ret := o.activation
	if len(a) > 0 {
		o.activation = a[0]
	}
	return ret
}

//DynamicSel returns whether neighbors are dynamically selected (compacted
//sparse edge lists instead of fixed padded arrays) and sets it, if a value
//is given.
func (o *Options) DynamicSel(d ...bool) bool {
	ret := o.dynamicSel
	if len(d) > 0 {
		o.dynamicSel = d[0]
	}
	return ret
}

//SelReduceFactor returns the neighbor-scale reduction factor used for
//normalization in dynamic selection mode and sets it, if a value is given.
func (o *Options) SelReduceFactor(f ...float64) float64 {
	ret := o.selReduceFactor
	if len(f) > 0 {
		o.selReduceFactor = f[0]
	}
	return ret
}

//SmoothEdgeUpdate returns whether the smooth edge update policy is enabled
//(no self padding fallback in the edge update) and sets it, if a value is
//given. Dynamic selection requires this policy.
func (o *Options) SmoothEdgeUpdate(s ...bool) bool {
	ret := o.smoothEdgeUpdate
	if len(s) > 0 {
		o.smoothEdgeUpdate = s[0]
	}
	return ret
}

//EdgeInitUseDist returns whether the raw distance r, instead of 1/r, seeds
//the edge embedding, and sets it, if a value is given. In this mode no
//activation is applied to the initial edge embedding.
func (o *Options) EdgeInitUseDist(d ...bool) bool {
	ret := o.edgeInitUseDist
	if len(d) > 0 {
		o.edgeInitUseDist = d[0]
	}
	return ret
}

//UseBasis returns whether the initial edge embedding is built from a
//sinusoidal radial basis expansion of the distance and sets it, if a value
//is given. Enabling the basis forces EdgeInitUseDist.
func (o *Options) UseBasis(b ...bool) bool {
	ret := o.useBasis
	if len(b) > 0 {
		o.useBasis = b[0]
	}
	return ret
}

//BasisSize returns the number of radial basis functions and sets it, if a
//valid value is given.
func (o *Options) BasisSize(n ...int) int {
	ret := o.basisSize
	if len(n) > 0 && n[0] > 0 {
		o.basisSize = n[0]
	}
	return ret
}

//BasisTrainable returns whether the basis frequency coefficients are
//trainable parameters and sets it, if a value is given.
func (o *Options) BasisTrainable(t ...bool) bool {
	ret := o.basisTrainable
	if len(t) > 0 {
		o.basisTrainable = t[0]
	}
	return ret
}

//CoordUpdate returns whether layers may update atomic coordinates between
//message-passing iterations and sets it, if a value is given.
func (o *Options) CoordUpdate(u ...bool) bool {
	ret := o.coordUpdate
	if len(u) > 0 {
		o.coordUpdate = u[0]
	}
	return ret
}

//CoordsAgg returns the coordinate update aggregation mode ("mean" or "sum",
//consumed by the layers) and sets it, if a valid value is given.
func (o *Options) CoordsAgg(a ...string) string {
	ret := o.coordsAgg
	if len(a) > 0 && (a[0] == "mean" || a[0] == "sum") {
		o.coordsAgg = a[0]
	}
	return ret
}

//UseLocMapping returns whether neighbor lists are remapped to local atom
//indexes in non-distributed evaluation and sets it, if a value is given.
func (o *Options) UseLocMapping(u ...bool) bool {
	ret := o.useLocMapping
	if len(u) > 0 {
		o.useLocMapping = u[0]
	}
	return ret
}

//Protection returns the numerical protection epsilon added to interatomic
//distances before any division and sets it, if a non-negative value is
//given.
func (o *Options) Protection(p ...float64) float64 {
	ret := o.protection
	if len(p) > 0 && p[0] >= 0 {
		o.protection = p[0]
	}
	return ret
}

//ExcludeTypes returns the excluded type pairs (pairs of element types with
//no interaction) and sets them, if given. The exclusion is symmetric.
func (o *Options) ExcludeTypes(e ...[][2]int) [][2]int {
	ret := o.excludeTypes
	if len(e) > 0 {
		o.excludeTypes = e[0]
	}
	return ret
}

//FixStatStd returns the constant normalization standard deviation. A
//non-zero value (the default, 0.3) replaces data-derived deviations
//entirely. It is set if a non-negative value is given.
func (o *Options) FixStatStd(f ...float64) float64 {
	ret := o.fixStatStd
	if len(f) > 0 && f[0] >= 0 {
		o.fixStatStd = f[0]
	}
	return ret
}

//SetDavgZero returns whether the normalization mean is fixed to zero
//instead of computed from data, and sets it, if a value is given.
func (o *Options) SetDavgZero(z ...bool) bool {
	ret := o.setDavgZero
	if len(z) > 0 {
		o.setDavgZero = z[0]
	}
	return ret
}

//Seed returns the seed for deterministic parameter initialization and sets
//it, if a value is given.
func (o *Options) Seed(s ...int64) int64 {
	ret := o.seed
	if len(s) > 0 {
		o.seed = s[0]
	}
	return ret
}

//validate checks the configuration for inconsistencies that would produce
//silently wrong numbers downstream. It is called once, at block
//construction.
func (o *Options) validate() error {
	if o.eRcutSmth >= o.eRcut {
		return Error{fmt.Sprintf("edge smoothing radius (%4.2f) must be smaller than the edge cutoff (%4.2f)", o.eRcutSmth, o.eRcut), []string{"validate"}, true}
	}
	if o.aRcutSmth >= o.aRcut {
		return Error{fmt.Sprintf("angle smoothing radius (%4.2f) must be smaller than the angle cutoff (%4.2f)", o.aRcutSmth, o.aRcut), []string{"validate"}, true}
	}
	if o.aRcut > o.eRcut {
		return Error{fmt.Sprintf("angle cutoff (%4.2f) can not exceed the edge cutoff (%4.2f)", o.aRcut, o.eRcut), []string{"validate"}, true}
	}
	if o.aSel > o.eSel {
		return Error{fmt.Sprintf("angle neighbor count (%d) can not exceed the edge neighbor count (%d)", o.aSel, o.eSel), []string{"validate"}, true}
	}
	if o.selReduceFactor <= 0 {
		return Error{fmt.Sprintf("the neighbor-scale reduction factor must be positive, got %4.2f", o.selReduceFactor), []string{"validate"}, true}
	}
	if o.dynamicSel && !o.smoothEdgeUpdate {
		return Error{"dynamic neighbor selection requires the smooth edge update policy", []string{"validate"}, true}
	}
	for _, p := range o.excludeTypes {
		if p[0] < 0 || p[1] < 0 {
			return Error{fmt.Sprintf("negative element type in excluded pair (%d,%d)", p[0], p[1]), []string{"validate"}, true}
		}
	}
	return nil
}
