// Package volume provides dense voxel grids: indexing, procedural
// generators, the colormap ramp, the shared unit-cube geometry and the CPU
// reference ray-march used by the software backend.
//
// A grid is dim*dim*dim bytes with x varying fastest:
//
//	Index(x, y, z, dim) == z*dim*dim + y*dim + x
package volume
