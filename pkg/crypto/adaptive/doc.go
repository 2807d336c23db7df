// Package adaptive provides authenticated encryption with automatic
// algorithm selection.
//
// It picks the best available AEAD for the host:
//
//   - AES-256-GCM when hardware AES support is available
//   - ChaCha20-Poly1305 otherwise
//
// The package also carries HKDF-based subkey derivation so a single
// configured master key can serve multiple purposes.
//
// Usage:
//
//	c, err := adaptive.New(key)
//	sealed, err := c.Encrypt(plaintext, aad)
//	plaintext, err := c.Decrypt(sealed, aad)
package adaptive
