// Package surface transforms a package's compiled output and generates the
// forwarding modules that expose its public entry points from the package
// root.
//
// For every compiled module marked public, two files are written next to the
// package manifest at the module's output-relative path:
//
//	<path>.js    module.exports = require('<relative path into the output dir>');
//	<path>.d.ts  default and/or named re-exports matching the module's declaration
//
// Both carry the autogenerated marker so the next build sweeps them first.
package surface
