// Package ir holds the intermediate representation shared by every
// conversion direction.
//
// This package contains the tree types and the rules attached to them:
// direction-specific type defaults, the compact-output contract, and the
// synthetic-identifier counters. All other internal packages import ir;
// ir imports nothing internal. Readers build a Document, writers consume
// it; a Document is never mutated after a reader returns it.
package ir
