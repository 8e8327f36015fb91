/*
 * doc.go, part of godesc
 *
 * Copyright 2025 Tuomas Koskela <tkoskela{at}protonDOTme>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

/*Package desc builds smooth, permutation- and rotation-aware geometric
descriptors of atomic environments, of the kind used as inputs to machine
learning interatomic potentials.


	**Capabilities**

    Builds the smoothed environment matrix from coordinates, element types
	and a padded fixed-capacity neighbor list, with per-type normalization
	statistics that can be data-derived or held constant.

    Quintic polynomial and double-exponential switch functions for smooth
	cutoff behavior.

    Angular geometry between neighbor pairs inside a tighter angle cutoff,
	with combined pair weights.

    Compaction of the padded neighbor structure into flat edge and angle
	lists with owner indices, for workloads where most padding slots are
	empty.

    Initial scalar embeddings for edges and angles, optionally through a
	trainable sine radial basis under a smooth polynomial envelope.

    A message-passing layer loop over user-supplied layers, with optional
	equivariant coordinate refinement between layers over a fixed neighbor
	topology, and a hook for distributed halo exchange of node embeddings
	(with doubled real/virtual layouts for spin models).

    The equivariant frame, a per-atom contraction of edge embeddings with
	displacement directions that rotates with the system.

    Concurrent accumulation of normalization statistics over samples, with
	zstd-compressed caching keyed by the geometric configuration.

All dense quantities use gonum's mat.Dense with flat row-major layouts;
the leading index order is always (frame, atom, neighbor).*/
package desc
