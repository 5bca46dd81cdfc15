// Package variant models the dynamically shaped trees a SourceKit-style
// analysis service returns.
//
// This package contains the value types and their serializers only. Every
// other internal package imports variant; variant imports nothing internal.
// That keeps the response model the foundational layer with no circular
// dependencies.
//
// Key design constraints:
//   - Value is a sealed union; every consumption site type-switches over
//     the nine shapes and treats anything else as a contract violation
//   - Dictionary preserves key insertion order, because serialized output
//     must render keys in the order the service emitted them
//   - Bytes payloads are opaque; they are decoded by syntaxmap or stripped
//     before serialization, never rendered
package variant
