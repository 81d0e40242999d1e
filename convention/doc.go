// Package convention provides small stateless helpers, each attempting one
// native calling convention of a validation library and normalizing the
// outcome into an anyskema.Result. A helper reports false instead of guessing
// when the value does not expose its convention, so adapters can chain them.
//
// Helpers carry guards against convention collisions: a helper probing for a
// generic Validate method first confirms the value does not also expose a
// more specific convention (SafeParse), since a wrong guess would silently
// mis-validate.
package convention
