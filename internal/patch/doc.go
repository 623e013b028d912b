// Package patch implements idempotent text patches over build descriptors.
//
// A [Spec] names one structural change: a detection pattern that tells
// whether the change is already there, an anchor pattern that says where it
// belongs, and the text to insert. [Apply] always runs detection first, so
// applying a spec twice never inserts twice.
//
// Outcomes are reported as a [Result]:
//
//   - [AlreadyPresent]: detection matched; content is returned unchanged
//   - [Applied]: the anchor matched exactly once and the template was inserted
//   - [AnchorNotFound]: the anchor is missing or ambiguous; content is unchanged
//
// AnchorNotFound is not an error. A hand-edited project may not have the
// expected shape, and the remaining specs still run.
//
// Inserted lines take the indentation observed next to the anchor and the
// line ending style of the file. Bytes outside the insertion point are never
// modified.
//
// Specs with [PositionReplace] instead rewrite every anchor match through
// [Spec.Rewrite]. They are meant for settings repeated once per build
// configuration, such as FRAMEWORK_SEARCH_PATHS in a project.pbxproj.
package patch
