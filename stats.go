/*
 * stats.go, part of godesc
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

//stats.go owns the normalization statistics of the environment matrix:
//their computation from sampled configurations, their persistence, and the
//guarantee that no standard deviation is ever zero.

package desc

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

//stdProtection is the floor applied to data-derived standard deviations so
//normalization can never divide by zero.
const stdProtection = 1e-2

//Stats holds the per-type normalization statistics for the environment
//matrix, shaped [ntypes, nnei, 4] and stored flat. They are read-only
//during forward evaluation.
type Stats struct {
	Mean   []float64 `json:"mean"`
	Stddev []float64 `json:"stddev"`
	Ntypes int       `json:"ntypes"`
	Nnei   int       `json:"nnei"`
}

//ConstantStats returns statistics with zero mean and the given constant
//standard deviation for every entry. A non-positive std is replaced by 1.
func ConstantStats(ntypes, nnei int, std float64) *Stats {
	if std <= 0 {
		std = 1
	}
	n := ntypes * nnei * 4
	ret := &Stats{Mean: make([]float64, n), Stddev: make([]float64, n), Ntypes: ntypes, Nnei: nnei}
	for i := range ret.Stddev {
		ret.Stddev[i] = std
	}
	return ret
}

//MeanAt returns the normalization mean for (type, slot, component).
func (s *Stats) MeanAt(t, j, c int) float64 {
	return s.Mean[(t*s.Nnei+j)*4+c]
}

//StddevAt returns the normalization standard deviation for
//(type, slot, component). It is guaranteed nonzero.
func (s *Stats) StddevAt(t, j, c int) float64 {
	return s.Stddev[(t*s.Nnei+j)*4+c]
}

//Sample is one configuration drawn for statistics computation.
type Sample struct {
	Coords []*mat.Dense //one nall x 3 matrix per frame
	Nlist  *NeighborList
	Atype  [][]int //per frame, per local atom element types
}

//Accumulator computes, or loads from storage, the mean and standard
//deviation of the raw environment matrix over sampled configurations. It
//runs once, before any forward evaluation, and is the only writer of
//Stats values.
type Accumulator struct {
	ntypes     int
	nnei       int
	rCut       float64
	rSmth      float64
	protection float64
	swf        Switch
	davgZero   bool
}

//NewAccumulator builds an accumulator for the environment matrix defined
//by the given options.
func NewAccumulator(ntypes int, options ...*Options) *Accumulator {
	var o *Options
	if len(options) > 0 {
		o = options[0]
	} else {
		o = DefaultOptions()
	}
	return &Accumulator{
		ntypes:     ntypes,
		nnei:       o.eSel,
		rCut:       o.eRcut,
		rSmth:      o.eRcutSmth,
		protection: o.protection,
		swf:        o.switchFn,
		davgZero:   o.setDavgZero,
	}
}

//Key returns a hash of every setting that affects the statistics, used to
//name the stored file so stale statistics are never loaded for a changed
//configuration.
func (A *Accumulator) Key() string {
	cfg := struct {
		Ntypes     int     `json:"ntypes"`
		Nnei       int     `json:"nnei"`
		RCut       float64 `json:"rcut"`
		RSmth      float64 `json:"rcut_smth"`
		Protection float64 `json:"protection"`
		Switch     string  `json:"switch"`
		DavgZero   bool    `json:"davg_zero"`
	}{A.ntypes, A.nnei, A.rCut, A.rSmth, A.protection, A.swf.String(), A.davgZero}
	b, _ := json.Marshal(cfg)
	return fmt.Sprintf("%x", sha256.Sum256(b))[:16]
}

//LoadOrCompute returns the statistics for this configuration. If dir is
//non-empty and holds statistics for the same Key, they are loaded;
//otherwise sample is invoked once, the statistics are computed from the
//returned configurations, and (if dir is non-empty) stored there. The
//returned standard deviations are never zero.
func (A *Accumulator) LoadOrCompute(sample func() ([]Sample, error), dir string) (*Stats, error) {
	if dir != "" {
		st, err := A.load(dir)
		if err == nil {
			slog.Info("loaded environment statistics", "dir", dir, "key", A.Key())
			return st, nil
		}
	}
	if sample == nil {
		return nil, Error{"no stored statistics found and no sampler given", []string{"LoadOrCompute"}, true}
	}
	samples, err := sample()
	if err != nil {
		return nil, errDecorate(err, "LoadOrCompute")
	}
	st, err := A.Compute(samples)
	if err != nil {
		return nil, errDecorate(err, "LoadOrCompute")
	}
	if dir != "" {
		if err := A.save(st, dir); err != nil {
			return nil, errDecorate(err, "LoadOrCompute")
		}
	}
	return st, nil
}

//typePool collects raw environment values per element type, radial and
//angular components pooled separately.
type typePool struct {
	radial  [][]float64
	angular [][]float64
}

func newTypePool(ntypes int) *typePool {
	return &typePool{radial: make([][]float64, ntypes), angular: make([][]float64, ntypes)}
}

func (p *typePool) merge(q *typePool) {
	for t := range p.radial {
		p.radial[t] = append(p.radial[t], q.radial[t]...)
		p.angular[t] = append(p.angular[t], q.angular[t]...)
	}
}

//Compute calculates the statistics from the given samples. Samples are
//processed concurrently, one worker per logical CPU.
func (A *Accumulator) Compute(samples []Sample) (*Stats, error) {
	if len(samples) == 0 {
		return nil, Error{"no samples given for statistics computation", []string{"Compute"}, true}
	}
	slog.Info("computing environment statistics", "samples", len(samples), "ntypes", A.ntypes, "nnei", A.nnei)
	cpus := runtime.NumCPU()
	if cpus > len(samples) {
		cpus = len(samples)
	}
	pools := make([]*typePool, cpus)
	var wg sync.WaitGroup
	for w := 0; w < cpus; w++ {
		pools[w] = newTypePool(A.ntypes)
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for s := w; s < len(samples); s += cpus {
				A.accumulate(pools[w], &samples[s])
			}
		}(w)
	}
	wg.Wait()
	pool := pools[0]
	for _, q := range pools[1:] {
		pool.merge(q)
	}
	return A.reduce(pool), nil
}

//accumulate adds one sample's raw environment matrix to the pool. Every
//neighbor slot contributes, padded slots as zero rows, so sparser
//environments pull the statistics toward zero.
func (A *Accumulator) accumulate(pool *typePool, s *Sample) {
	em := buildEnvMat(s.Coords, s.Nlist, A.rCut, A.rSmth, false, A.protection, A.swf)
	nf, nloc, nnei := s.Nlist.Dims()
	for f := 0; f < nf; f++ {
		for i := 0; i < nloc; i++ {
			t := s.Atype[f][i]
			if t < 0 || t >= A.ntypes {
				continue
			}
			for j := 0; j < nnei; j++ {
				r := (f*nloc+i)*nnei + j
				pool.radial[t] = append(pool.radial[t], em.Mat.At(r, 0))
				for c := 1; c < 4; c++ {
					pool.angular[t] = append(pool.angular[t], em.Mat.At(r, c))
				}
			}
		}
	}
}

//reduce turns the pooled values into broadcast [ntypes, nnei, 4] mean and
//standard deviation arrays, flooring the deviation away from zero.
func (A *Accumulator) reduce(pool *typePool) *Stats {
	ret := ConstantStats(A.ntypes, A.nnei, 1)
	for t := 0; t < A.ntypes; t++ {
		var mr, sr, ma, sa float64
		if len(pool.radial[t]) > 0 {
			mr, sr = stat.MeanStdDev(pool.radial[t], nil)
		}
		if len(pool.angular[t]) > 0 {
			ma, sa = stat.MeanStdDev(pool.angular[t], nil)
		}
		if sr < stdProtection {
			sr = stdProtection
		}
		if sa < stdProtection {
			sa = stdProtection
		}
		if A.davgZero {
			mr, ma = 0, 0
		}
		for j := 0; j < A.nnei; j++ {
			base := (t*A.nnei + j) * 4
			ret.Mean[base] = mr
			ret.Stddev[base] = sr
			for c := 1; c < 4; c++ {
				ret.Mean[base+c] = ma
				ret.Stddev[base+c] = sa
			}
		}
	}
	return ret
}

func (A *Accumulator) statPath(dir string) string {
	return filepath.Join(dir, fmt.Sprintf("envstat-%s.json.zst", A.Key()))
}

//save stores the statistics as zstd-compressed JSON under dir, which is
//created if missing.
func (A *Accumulator) save(st *Stats, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Error{"can't create the statistics directory: " + err.Error(), []string{"save"}, true}
	}
	f, err := os.Create(A.statPath(dir))
	if err != nil {
		return Error{"can't create the statistics file: " + err.Error(), []string{"save"}, true}
	}
	defer f.Close()
	h, err := zstd.NewWriter(f)
	if err != nil {
		return Error{"can't set up compression: " + err.Error(), []string{"save"}, true}
	}
	if err := json.NewEncoder(h).Encode(st); err != nil {
		h.Close()
		return Error{"can't encode the statistics: " + err.Error(), []string{"save"}, true}
	}
	return h.Close()
}

//load reads previously stored statistics for this configuration key.
func (A *Accumulator) load(dir string) (*Stats, error) {
	f, err := os.Open(A.statPath(dir))
	if err != nil {
		return nil, Error{"can't open the statistics file: " + err.Error(), []string{"load"}, true}
	}
	defer f.Close()
	h, err := zstd.NewReader(f)
	if err != nil {
		return nil, Error{"can't set up decompression: " + err.Error(), []string{"load"}, true}
	}
	defer h.Close()
	st := new(Stats)
	if err := json.NewDecoder(h).Decode(st); err != nil {
		return nil, Error{"can't decode the statistics: " + err.Error(), []string{"load"}, true}
	}
	if st.Ntypes != A.ntypes || st.Nnei != A.nnei {
		return nil, Error{fmt.Sprintf("stored statistics are for %d types and %d neighbors, want %d and %d", st.Ntypes, st.Nnei, A.ntypes, A.nnei), []string{"load"}, true}
	}
	for _, v := range st.Stddev {
		if v == 0 {
			return nil, Error{"stored statistics contain a zero standard deviation", []string{"load"}, true}
		}
	}
	return st, nil
}
