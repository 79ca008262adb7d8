// Package casm models compiled Cairo contract classes as they are loaded for
// execution: the legacy Cairo 0 class (V0), the Cairo 1 CASM class (V1) and the
// runnable wrapper that dispatches between them.
//
// Besides holding program data and entry points, a class answers questions the
// execution layer asks before and after running it:
//
//   - how much VM work hashing the class bytecode costs
//     (EstimateCasmHashComputationResources)
//   - which bytecode segments a run touched (VisitedSegments)
//   - which resource a call is billed in (TrackedResource)
//
// # Decoding
//
// V1 classes are read from the CASM wire format produced by the Sierra to CASM
// compiler:
//
//	class, err := casm.NewCompiledClassV1(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cost, err := class.EstimateCasmHashComputationResources()
//
// Legacy classes are read from the deprecated class JSON. The program inside it
// is converted by a LegacyProgramConverter; the default one re-shapes the JSON
// without interpreting it.
//
//	legacy, err := casm.NewCompiledClassV0(data)
//
// # Bytecode Segmentation
//
// A V1 class may split its bytecode into a tree of segments (Leaf, Node).
// The class hash is computed over the tree, and segments that are never visited
// need not be loaded. VisitedSegments maps the set of program counters seen
// during a run back to the start offsets of the leaves they fall in.
//
// # Errors
//
// All failures are returned as errors. Callers match the package sentinels with
// errors.Is and the typed errors with errors.As.
package casm
