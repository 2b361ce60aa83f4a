// Package jsonform reads and writes the simplified JSON task form.
//
// The reader fills documented defaults and assigns synthetic task ids; the
// writer emits the compact form defined by the ir compact-output contract.
// The package also owns the recognized-field input schema (draft-07,
// embedded) and the verbose IR debug dump.
package jsonform
