// Package ir provides the canonical value representation shared by the
// formula subsystem.
//
// This package contains value types and conversions only. All other
// internal packages import ir; ir imports nothing internal. This keeps
// it the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Exactly four runtime kinds: null, number, text, boolean
//   - Numbers are float64 end to end; integral values still render
//     with one decimal place ("15.0")
//   - Coercion to a target type is strict and total per target; it
//     never silently reinterprets across kinds
//   - Identifiers and snapshot keys are NFC-normalized at the boundary
package ir
