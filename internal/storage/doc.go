// Package storage provides the durable capture archive.
//
// Archived captures are serialized with the capture file codec and
// stored in an embedded Badger database alongside JSON metadata. Each
// payload carries a Murmur3 fingerprint that is verified on every
// read, and can optionally be sealed with an authenticated cipher.
package storage
