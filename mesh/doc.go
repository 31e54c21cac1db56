// Package mesh reads and writes triangle meshes in Wavefront OBJ and ASCII
// PLY form.
//
// Only the geometry the pipeline needs is kept: vertex positions in file
// order and triangles as zero-based index triples. Normals, texture
// coordinates and materials are skipped on read. Polygons with more than
// three corners are fan-triangulated.
//
// Load and Export pick the format from the file extension and go through a
// blobstore.BlobStore, so meshes can live on local disk, in memory, or in an
// object store.
package mesh
