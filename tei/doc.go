// Package tei builds and parses the TEI-style XML fragments used for
// canonical episode content.
//
// Two concerns live here:
//   - Build/ParseHeader: construct minimal valid TEI documents and extract
//     the header payload (title plus the header subtree as a map).
//   - MergeProvenance/ExtractProvenance: embed a provenance payload into a
//     header payload under a fixed key, and recover it losslessly.
//
// The header payload map, not the raw XML, is the surface that carries
// provenance; the raw XML is stored verbatim alongside it.
package tei
