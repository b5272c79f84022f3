// Package filesystem provides filesystem implementations for trename.
//
// This package contains the OS implementation of the types.FS interface
// and small helpers shared by the validator, the renamer and the ledger.
package filesystem
