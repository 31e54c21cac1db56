// Package hash provides the checksum guarding exported code streams.
//
// All checksums use CRC32-Castagnoli, which Go computes with hardware
// instructions where available.
package hash
