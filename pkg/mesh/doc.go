// Package mesh holds the in-memory representations produced by the format
// loaders.
//
// A loader returns an Asset, which is one of two named shapes: a single
// polygonal Mesh or a Scene of named geometries. Anything else (a lone point
// cloud, a bare polyline) is carried as KindUnknown so callers can tell "not
// applicable" apart from "empty".
package mesh
