// Package textutil provides the text processing primitives behind timestamp
// alignment: normalization for fuzzy comparison, token fingerprints, cosine
// similarity, and a sequence-match ratio.
//
// Fingerprints use term frequency vectors; tokenization lowercases text,
// splits on non-alphanumeric characters, and filters tokens shorter than 3
// characters. The match ratio follows the Ratcliff/Obershelp approach: the
// total length of recursively matched common substrings scaled by combined
// input length.
package textutil
