/*
Package osc encodes and decodes single OSC 1.0 messages as spoken by the
X32 family of mixing consoles.

A message on the wire is an address string, an optional type-tag string
starting with ',' and the arguments in tag order. Every part is padded with
null bytes to a multiple of 4 bytes.

	i  int32, big-endian
	f  float32, big-endian IEEE 754
	s  null-terminated string, padded to 4 bytes
	b  int32 length, that many bytes, padded to 4 bytes

Bundles are not supported. Decoding never panics: malformed input yields a
*DecodeError that wraps one of the sentinel errors of this package.
*/
package osc
