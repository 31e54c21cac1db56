// Package quantization maps normalized vertex coordinates onto discrete lattices.
//
// Two independent modes are provided and deliberately kept apart:
//
//   - Uniform: a shared integer lattice. Each coordinate in [0,1] becomes
//     floor(x*(bins-1)) in [0, bins-1]; dequantization divides by bins-1.
//     Codes can be packed into a compact, self-describing stream.
//   - Adaptive: a per-vertex float lattice. Each vertex gets its own bin count
//     from its local density (denser means more bins) and is snapped directly to
//     round(v*bins)/bins. There is no shared code space, so the output is
//     continuous coordinates rather than codes.
//
// # Uniform
//
//	u, err := quantization.NewUniform(1024)
//	codes := u.Quantize(norm)            // norm in [0,1]^3
//	deq, err := codes.Dequantize()
//
// Unit-sphere output lives in [-1,1] and must be remapped first:
//
//	codes := u.Quantize(quantization.ToUnit(norm))
//	deq, _ := codes.Dequantize()
//	back := quantization.FromUnit(deq)
//
// # Adaptive
//
//	a := quantization.DefaultAdaptive()  // base 1024, bins clipped to [256, 2048], k=8
//	res, err := a.Quantize(norm)
//	res.Vertices                         // snapped coordinates
//	res.Bins.Counts                      // per-vertex bin count
//
// # Code streams
//
//	data, _ := codes.Encode(quantization.CompressionZSTD)
//	codes, _ = quantization.DecodeCodes(data)
package quantization
