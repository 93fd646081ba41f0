// Package toolchain wraps the external collaborators of a package build: the
// type-checking compiler, run as a subprocess, and the code-transform stage,
// run in-process through esbuild.
//
// Both are exposed as small interfaces so orchestration code can swap in
// fakes under test.
package toolchain
