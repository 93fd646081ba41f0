// Package sourcetree lists a package's files and classifies each one exactly
// once into a tagged view: source, autogenerated or ignored.
//
// Listing is lexical and deterministic (filepath.WalkDir order). Entries whose
// basename is in the ignore set are dropped at any depth, and ignored
// directories are not descended into. A regular file is autogenerated when its
// text carries the autogenerated marker token.
package sourcetree
