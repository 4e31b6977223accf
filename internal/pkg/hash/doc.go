// Package hash provides keyed digests for secrets that must never be stored
// in plaintext, such as pending verification codes. Only the digest is
// persisted; a submitted value is checked by hashing it again and comparing
// in constant time.
package hash
