/*
 * block.go, part of godesc
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

//block.go orchestrates the descriptor: environment matrix construction,
//embedding initialization, the message-passing layer loop with optional
//equivariant coordinate refinement, and the final frame assembly.

package desc

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

//LayerIn is everything a message-passing layer receives: the current
//node/edge/angle embeddings, the geometry, the neighbor structure with
//its masks and weights and, in dynamic mode, the sparse index tables.
type LayerIn struct {
	NodeExt    *mat.Dense    //(nf*nloc) or (nf*nall) x nDim, extended node embedding
	Edge       *mat.Dense    //(nf*nloc*nnei) or nEdge x eDim
	H2         *mat.Dense    //equivariant component of the environment matrix
	Angle      *mat.Dense    //(nf*nloc*aSel*aSel) or nAngle x aDim
	Nlist      *NeighborList //zero-padded, possibly local-mapped
	Mask       []bool
	Sw         []float64
	ANlist     *NeighborList
	AMask      []bool
	ASw        []float64 //per-slot weights (dense) or per-pair products (dynamic)
	EdgeIndex  []EdgeIdx
	AngleIndex []AngleIdx
	Diff       *mat.Dense //(nf*nloc*nnei) x 3 raw displacement
	Nf, Nloc   int
}

//LayerOut is what a layer returns: the refined embeddings and, when the
//layer moves atoms, a per-local-atom coordinate increment.
type LayerOut struct {
	Node        *mat.Dense //(nf*nloc) x nDim
	Edge        *mat.Dense //same edge-axis layout as the input
	Angle       *mat.Dense
	CoordUpdate *mat.Dense //(nf*nloc) x 3, or nil
}

//Layer is one message-passing iteration. Its internal algorithm is not
//this module's business; only the input/output contract is.
type Layer interface {
	Forward(in *LayerIn) (*LayerOut, error)
}

//Result is the output of one descriptor evaluation.
type Result struct {
	Node       *mat.Dense //(nf*nloc) x nDim
	Edge       *mat.Dense //(nf*nloc*nnei) or nEdge x eDim
	H2         *mat.Dense //equivariant environment component, same edge layout
	Diff       *mat.Dense //(nf*nloc*nnei) x 3 raw displacement
	Frame      *mat.Dense //(nf*nloc*eDim) x 3 equivariant frame
	Sw         []float64  //per-edge switch weights, same edge layout
	EdgeIndex  []EdgeIdx  //dynamic mode only
	AngleIndex []AngleIdx //dynamic mode only
}

//Block is the descriptor block: it owns the embedding initializers, the
//normalization statistics, the exclusion mask and the ordered layer
//stack. Build one with NewBlock; the zero value is not usable.
type Block struct {
	o         *Options
	ntypes    int
	nnei      int
	layers    []Layer
	edgeInit  *edgeInit
	angleInit *angleInit
	emask     *PairMask
	stats     *Stats
}

//NewBlock validates the configuration and assembles a descriptor block
//for ntypes element types with the given layer stack. Configuration
//errors are returned immediately; nothing falls back silently.
func NewBlock(ntypes int, layers []Layer, options ...*Options) (*Block, error) {
	var o *Options
	if len(options) > 0 {
		o = options[0]
	} else {
		o = DefaultOptions()
	}
	if err := o.validate(); err != nil {
		return nil, errDecorate(err, "NewBlock")
	}
	if ntypes <= 0 {
		return nil, Error{"need at least one element type", []string{"NewBlock"}, true}
	}
	if len(layers) == 0 {
		return nil, Error{"need at least one message-passing layer", []string{"NewBlock"}, true}
	}
	ret := &Block{
		o:         o,
		ntypes:    ntypes,
		nnei:      o.eSel,
		layers:    layers,
		edgeInit:  newEdgeInit(o),
		angleInit: newAngleInit(o),
		emask:     NewPairMask(ntypes, o.excludeTypes),
	}
	if o.fixStatStd != 0 {
		ret.stats = ConstantStats(ntypes, o.eSel, o.fixStatStd)
	} else {
		//data-derived statistics must be installed with SetStats before
		//the first forward evaluation; unit deviation until then
		ret.stats = ConstantStats(ntypes, o.eSel, 1)
	}
	return ret, nil
}

//SetStats installs data-derived normalization statistics, typically
//obtained from an Accumulator. It is rejected when the configured
//constant deviation is active, when shapes disagree, or when any
//deviation is zero.
func (B *Block) SetStats(st *Stats) error {
	if B.o.fixStatStd != 0 {
		return Error{"the block uses a constant normalization deviation; data statistics would be ignored", []string{"SetStats"}, true}
	}
	if st.Ntypes != B.ntypes || st.Nnei != B.nnei {
		return Error{"statistics shape does not match the block configuration", []string{"SetStats"}, true}
	}
	for _, v := range st.Stddev {
		if v == 0 {
			return Error{"zero standard deviation in statistics", []string{"SetStats"}, true}
		}
	}
	B.stats = st
	return nil
}

//Stats returns the normalization statistics in use.
func (B *Block) Stats() *Stats { return B.stats }

//Rcut returns the edge cutoff radius.
func (B *Block) Rcut() float64 { return B.o.eRcut }

//RcutSmth returns the radius where the edge switch starts to decay.
func (B *Block) RcutSmth() float64 { return B.o.eRcutSmth }

//NSel returns the edge neighbor capacity.
func (B *Block) NSel() int { return B.nnei }

//NTypes returns the number of element types.
func (B *Block) NTypes() int { return B.ntypes }

//NLayers returns the number of message-passing layers.
func (B *Block) NLayers() int { return len(B.layers) }

//DimOut returns the node embedding width.
func (B *Block) DimOut() int { return B.o.nDim }

//DimEmb returns the edge embedding width.
func (B *Block) DimEmb() int { return B.o.eDim }

//EnvProtection returns the numerical protection epsilon.
func (B *Block) EnvProtection() float64 { return B.o.protection }

//Forward evaluates the descriptor. nl is the padded neighbor list, coords
//one nall x 3 matrix per frame, extAtype the extended element types (the
//local atoms are their prefix), typeEbd the precomputed per-atom type
//embedding with one row per extended atom. Exactly one of mapping (the
//extended-to-local index map per frame) or comm (the distributed
//communication bundle) must be given. The neighbor topology is read-only
//throughout: even when layers update coordinates, who-neighbors-whom
//never changes within one evaluation.
func (B *Block) Forward(nl *NeighborList, coords []*mat.Dense, extAtype [][]int, typeEbd *mat.Dense, mapping [][]int, comm *CommBundle) (*Result, error) {
	if nl == nil {
		panic(ErrNilNeighborList)
	}
	nf, nloc, nnei := nl.Dims()
	if nnei != B.nnei {
		panic(ErrShape)
	}
	parallel := comm != nil
	if !parallel && mapping == nil {
		return nil, Error{"an extended-to-local mapping is required outside distributed mode", []string{"Forward"}, true}
	}
	if parallel && nf != 1 {
		return nil, Error{"distributed evaluation works on a single frame per partition", []string{"Forward"}, true}
	}
	if len(coords) != nf {
		panic(ErrShape)
	}
	nall, _ := coords[0].Dims()
	if erows, ecols := typeEbd.Dims(); erows != nf*nall || ecols != B.o.nDim {
		panic(ErrShape)
	}

	//excluded type pairs become padding before any geometry exists
	nlGeo := B.emask.Apply(nl, extAtype)
	mask := nlGeo.Mask()

	em := ProdEnvMat(coords, nlGeo, extAtype, B.stats, B.o.eRcut, B.o.eRcutSmth, false, B.o.protection, B.o.switchFn)
	sw := em.Sw
	maskSw(sw, mask)

	ag := buildAngleGeom(coords, nlGeo, em.Diff, B.o.aSel, B.o.aRcut, B.o.aRcutSmth, B.o.protection, B.o.switchFn)

	//the layers see index 0 instead of sentinels, with reality tracked by
	//the masks; nlGeo keeps its sentinels for the geometry rebuilds
	nlPad := nlGeo.Clone()
	nlPad.zeroPadded()
	ag.Nlist.zeroPadded()

	//initial node embedding from the type embedding of the local atoms
	node := mat.NewDense(nf*nloc, B.o.nDim, nil)
	for f := 0; f < nf; f++ {
		for i := 0; i < nloc; i++ {
			for c := 0; c < B.o.nDim; c++ {
				node.Set(f*nloc+i, c, B.o.activation.Eval(typeEbd.At(f*nall+i, c)))
			}
		}
	}

	edgeInput, h2 := splitEnvMat(em)
	if B.edgeInit.useDist {
		for r := range edgeInput {
			dx, dy, dz := em.Diff.At(r, 0), em.Diff.At(r, 1), em.Diff.At(r, 2)
			edgeInput[r] = math.Sqrt(dx*dx + dy*dy + dz*dz)
		}
	}

	//the layers see local neighbor indices when mapping locally
	nlLayer := nlPad
	if !parallel && B.o.useLocMapping {
		nlLayer = nlPad.Clone()
		for f := 0; f < nf; f++ {
			for i := 0; i < nloc; i++ {
				for j := 0; j < nnei; j++ {
					nlLayer.Set(f, i, j, mapping[f][nlLayer.At(f, i, j)])
				}
			}
		}
	}

	var edges []EdgeIdx
	var angles []AngleIdx
	aSw := ag.Sw
	cos := ag.Cos
	if B.o.dynamicSel {
		edges, angles = buildGraphIndex(nlLayer, mask, ag.Mask, B.o.aSel, nall, !parallel && B.o.useLocMapping)
		edgeInput = compactFloats(edgeInput, mask)
		h2 = compactRows(h2, mask)
		sw = compactFloats(sw, mask)
		pairMask := make([]bool, nf*nloc*B.o.aSel*B.o.aSel)
		pairSw := make([]float64, len(pairMask))
		for f := 0; f < nf; f++ {
			for i := 0; i < nloc; i++ {
				for a := 0; a < B.o.aSel; a++ {
					for b := 0; b < B.o.aSel; b++ {
						p := ((f*nloc+i)*B.o.aSel+a)*B.o.aSel + b
						pairMask[p] = ag.PairValid(nloc, f, i, a, b)
						pairSw[p] = ag.PairWeight(nloc, f, i, a, b)
					}
				}
			}
		}
		cos = compactFloats(cos, pairMask)
		aSw = compactFloats(pairSw, pairMask)
	}

	edge := B.edgeInit.embed(edgeInput)
	angle := B.angleInit.embed(cos)

	//coordinate accumulator threaded through the layer loop; topology
	//stays fixed even as the geometry is re-derived
	coordsCur := coords
	coordsOwned := false
	diff := em.Diff

	for _, ll := range B.layers {
		nodeExt, err := B.extendNode(node, typeEbd, mapping, comm, nf, nloc, nall)
		if err != nil {
			return nil, errDecorate(err, "Forward")
		}
		in := &LayerIn{
			NodeExt: nodeExt, Edge: edge, H2: h2, Angle: angle,
			Nlist: nlLayer, Mask: mask, Sw: sw,
			ANlist: ag.Nlist, AMask: ag.Mask, ASw: aSw,
			EdgeIndex: edges, AngleIndex: angles,
			Diff: diff, Nf: nf, Nloc: nloc,
		}
		out, err := ll.Forward(in)
		if err != nil {
			return nil, errDecorate(err, "Forward")
		}
		assertLayerOut(out, in, B.o.nDim)
		node, edge, angle = out.Node, out.Edge, out.Angle

		//the rebuilt geometry after the last layer feeds the final frame
		if B.o.coordUpdate && out.CoordUpdate != nil {
			if parallel {
				return nil, Error{"coordinate update is not supported in distributed mode yet", []string{"Forward"}, true}
			}
			//first update copies the buffers so the caller's coordinates
			//survive the evaluation untouched
			if !coordsOwned {
				cp := make([]*mat.Dense, nf)
				for f := range coordsCur {
					cp[f] = mat.DenseCopyOf(coordsCur[f])
				}
				coordsCur = cp
				coordsOwned = true
			}
			//broadcast the local increments to every extended image of
			//each atom, keeping periodic shifts intact
			for f := 0; f < nf; f++ {
				for k := 0; k < nall; k++ {
					l := mapping[f][k]
					for c := 0; c < 3; c++ {
						coordsCur[f].Set(k, c, coordsCur[f].At(k, c)+out.CoordUpdate.At(f*nloc+l, c))
					}
				}
			}
			//re-derive the geometry against the unchanged topology
			em = ProdEnvMat(coordsCur, nlGeo, extAtype, B.stats, B.o.eRcut, B.o.eRcutSmth, false, B.o.protection, B.o.switchFn)
			sw = em.Sw
			maskSw(sw, mask)
			_, h2 = splitEnvMat(em)
			diff = em.Diff
			if B.o.dynamicSel {
				h2 = compactRows(h2, mask)
				sw = compactFloats(sw, mask)
			}
		}
	}

	var frame *mat.Dense
	if !B.o.dynamicSel {
		frame = calFrameDense(edge, h2, mask, sw, nf, nloc, nnei)
	} else {
		frame = calFrameDynamic(edge, h2, sw, edges, nf, nloc, nnei, B.o.selReduceFactor)
	}

	return &Result{
		Node: node, Edge: edge, H2: h2, Diff: diff, Frame: frame, Sw: sw,
		EdgeIndex: edges, AngleIndex: angles,
	}, nil
}

//extendNode derives the node embedding visible to neighbors: the plain
//local embedding or a mapping gather outside distributed mode, a border
//exchange (with spin interleaving when needed) inside it.
func (B *Block) extendNode(node, typeEbd *mat.Dense, mapping [][]int, comm *CommBundle, nf, nloc, nall int) (*mat.Dense, error) {
	if comm == nil {
		if B.o.useLocMapping {
			return node, nil
		}
		ret := mat.NewDense(nf*nall, B.o.nDim, nil)
		for f := 0; f < nf; f++ {
			for k := 0; k < nall; k++ {
				l := mapping[f][k]
				for c := 0; c < B.o.nDim; c++ {
					ret.Set(f*nall+k, c, node.At(f*nloc+l, c))
				}
			}
		}
		return ret, nil
	}
	ex := comm.Exchanger
	if ex == nil {
		ex = UnbuiltBorder{}
	}
	if !comm.HasSpin {
		buf := mat.NewDense(nall, B.o.nDim, nil)
		for i := 0; i < nloc; i++ {
			for c := 0; c < B.o.nDim; c++ {
				buf.Set(i, c, node.At(i, c))
			}
		}
		if err := ex.Exchange(comm.Plan, buf, nloc, nall-nloc); err != nil {
			return nil, errDecorate(err, "extendNode")
		}
		return buf, nil
	}
	//spin: real and virtual channels ride one doubled buffer
	realNloc := nloc / 2
	realNall := nall / 2
	buf := mat.NewDense(realNall, 2*B.o.nDim, nil)
	for i := 0; i < realNloc; i++ {
		for c := 0; c < B.o.nDim; c++ {
			buf.Set(i, c, node.At(i, c))
			buf.Set(i, B.o.nDim+c, node.At(realNloc+i, c))
		}
	}
	if err := ex.Exchange(comm.Plan, buf, realNloc, realNall-realNloc); err != nil {
		return nil, errDecorate(err, "extendNode")
	}
	re := mat.NewDense(realNall, B.o.nDim, nil)
	vi := mat.NewDense(realNall, B.o.nDim, nil)
	for r := 0; r < realNall; r++ {
		for c := 0; c < B.o.nDim; c++ {
			re.Set(r, c, buf.At(r, c))
			vi.Set(r, c, buf.At(r, B.o.nDim+c))
		}
	}
	return concatSwitchVirtual(re, vi, realNloc), nil
}

//assertLayerOut checks the layer's output shapes against the contract.
//Violations are programmer errors in the layer implementation.
func assertLayerOut(out *LayerOut, in *LayerIn, nDim int) {
	if out == nil || out.Node == nil || out.Edge == nil || out.Angle == nil {
		panic(ErrShape)
	}
	if r, c := out.Node.Dims(); r != in.Nf*in.Nloc || c != nDim {
		panic(ErrShape)
	}
	er, _ := in.Edge.Dims()
	if r, _ := out.Edge.Dims(); r != er {
		panic(ErrShape)
	}
	ar, _ := in.Angle.Dims()
	if r, _ := out.Angle.Dims(); r != ar {
		panic(ErrShape)
	}
	if out.CoordUpdate != nil {
		if r, c := out.CoordUpdate.Dims(); r != in.Nf*in.Nloc || c != 3 {
			panic(ErrShape)
		}
	}
}
