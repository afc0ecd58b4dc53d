// Package app implements the meshview pipeline: resolve the input path,
// check that it exists, probe the loader, load the asset, print the
// summary and hand the asset to a display backend.
//
// Failures are reported as *ExitError values carrying the process exit
// code, so that the command layer only has to print and exit.
package app
