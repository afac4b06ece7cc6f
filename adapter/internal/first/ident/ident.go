// Package ident declares a named type whose package base name it shares
// with internal/second/ident. Used by key-identity tests.
package ident

// Token is distinct from the identically named type in the sibling
// package.
type Token struct{ V int }
