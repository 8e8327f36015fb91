/*
 * options_test.go, part of godesc
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

import "testing"

func TestOptionsAccessors(Te *testing.T) {
	o := DefaultOptions()
	if o.ERcut() != 6.0 || o.ERcutSmth() != 5.0 || o.ESel() != 120 {
		Te.Error("wrong edge defaults")
	}
	if o.ARcut() != 4.0 || o.ARcutSmth() != 3.5 || o.ASel() != 20 {
		Te.Error("wrong angle defaults")
	}
	if o.FixStatStd() != 0.3 || !o.SetDavgZero() || !o.UseLocMapping() {
		Te.Error("wrong normalization defaults")
	}
	//a getter with an argument sets and returns the previous value
	if prev := o.ERcut(7.5); prev != 6.0 {
		Te.Errorf("setter should return the previous value, got %v", prev)
	}
	if o.ERcut() != 7.5 {
		Te.Error("setter did not apply")
	}
	//invalid values are ignored
	o.ESel(-2)
	if o.ESel() != 120 {
		Te.Error("an invalid selection count should be ignored")
	}
	o.CoordsAgg("median")
	if o.CoordsAgg() != "mean" {
		Te.Error("an unknown aggregation mode should be ignored")
	}
	o.CoordsAgg("sum")
	if o.CoordsAgg() != "sum" {
		Te.Error("a valid aggregation mode should apply")
	}
}

func TestOptionsValidate(Te *testing.T) {
	cases := []func(*Options){
		func(o *Options) { o.ERcutSmth(6.5) },                  //smoothing beyond the cutoff
		func(o *Options) { o.ARcutSmth(4.5) },                  //angle smoothing beyond the angle cutoff
		func(o *Options) { o.ASel(200) },                       //more angle slots than edge slots
		func(o *Options) { o.DynamicSel(true) },                //without smooth edge update
		func(o *Options) { o.ExcludeTypes([][2]int{{-1, 0}}) }, //negative type
	}
	for i, tweak := range cases {
		o := DefaultOptions()
		tweak(o)
		if err := o.validate(); err == nil {
			Te.Errorf("case %d should not validate", i)
		}
	}
	if err := DefaultOptions().validate(); err != nil {
		Te.Errorf("the defaults should validate: %v", err)
	}
}
