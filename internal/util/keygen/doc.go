// Package keygen generates the secrets written into node directories.
//
// Passwords and JWT secrets come from crypto/rand. Node identity keys are secp256k1
// keys produced by go-ethereum's crypto package and saved in the hex format the
// client reads from its nodekey file.
package keygen
