/*
 * border.go, part of godesc
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

//border.go defines the boundary-exchange capability used in distributed
//(multi-partition) evaluation. The exchange itself lives outside this
//module; here we define its contract and a stub that fails loudly, so a
//build without the real primitive can never return silently wrong
//numbers.

package desc

import "gonum.org/v1/gonum/mat"

//BorderExchanger ships node embeddings for boundary atoms across a domain
//partition. buf holds nloc local rows followed by nghost ghost rows; the
//call must fill the ghost rows from the peer partitions and return only
//once they are complete. It blocks; partial results are not allowed.
type BorderExchanger interface {
	Exchange(send *CommPlan, buf *mat.Dense, nloc, nghost int) error
}

//CommPlan is the communication schedule of one partition: which rows go
//to which peer and how many come back.
type CommPlan struct {
	SendList [][]int //per peer, indices of the rows to ship
	SendProc []int   //peer rank per send batch
	RecvProc []int   //peer rank per receive batch
	SendNum  []int   //rows shipped per batch
	RecvNum  []int   //rows received per batch
}

//CommBundle carries everything the block needs for one distributed
//forward evaluation.
type CommBundle struct {
	Plan      *CommPlan
	Exchanger BorderExchanger
	//HasSpin marks configurations with magnetic (spin) degrees of
	//freedom, whose node embeddings carry a real and a virtual channel
	//that are interleaved before the exchange and split afterwards.
	HasSpin bool
}

//UnbuiltBorder is the stub installed when the real communication
//primitive is not compiled in. Every call fails.
type UnbuiltBorder struct{}

func (UnbuiltBorder) Exchange(send *CommPlan, buf *mat.Dense, nloc, nghost int) error {
	return Error{"border exchange is not available: the communication primitive was not built", []string{"Exchange"}, true}
}

//concatSwitchVirtual rebuilds the doubled (spin) layout from separately
//exchanged real and virtual channels: nloc real rows, nloc virtual rows,
//then the ghost real rows followed by the ghost virtual rows.
func concatSwitchVirtual(real, virtual *mat.Dense, nloc int) *mat.Dense {
	nall, cols := real.Dims()
	vr, vc := virtual.Dims()
	if vr != nall || vc != cols {
		panic(ErrShape)
	}
	ret := mat.NewDense(2*nall, cols, nil)
	for r := 0; r < nloc; r++ {
		for c := 0; c < cols; c++ {
			ret.Set(r, c, real.At(r, c))
			ret.Set(nloc+r, c, virtual.At(r, c))
		}
	}
	for r := nloc; r < nall; r++ {
		for c := 0; c < cols; c++ {
			ret.Set(nloc+r, c, real.At(r, c))
			ret.Set(nall+r, c, virtual.At(r, c))
		}
	}
	return ret
}
