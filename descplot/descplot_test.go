/*
 * descplot_test.go, part of godesc
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

package descplot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tkoskela/godesc"
)

func TestSwitchPlot(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "switches")
	err := SwitchPlot([]desc.Switch{desc.PolySwitch, desc.ExpSwitch}, 5.0, 6.0, name)
	if err != nil {
		Te.Fatal(err)
	}
	if _, err := os.Stat(name + ".png"); err != nil {
		Te.Error("the plot file was not written")
	}
	if err := SwitchPlot(nil, 6.0, 6.0, name); err == nil {
		Te.Error("an empty decay window should be rejected")
	}
}

func TestBasisPlot(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "basis")
	if err := BasisPlot(6.0, 4, name); err != nil {
		Te.Fatal(err)
	}
	if _, err := os.Stat(name + ".png"); err != nil {
		Te.Error("the plot file was not written")
	}
	if err := BasisPlot(6.0, 0, name); err == nil {
		Te.Error("a basis without channels should be rejected")
	}
}
