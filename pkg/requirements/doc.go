// Package requirements builds the dependency list of a package from its
// resolved options.
//
// Each Rule contributes references and sub-option overrides. Builder applies
// rules in order and reconciles the overrides per dependency, so two rules may
// write the same value onto a shared dependency but never different ones.
package requirements
