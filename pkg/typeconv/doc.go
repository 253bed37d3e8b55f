// Package typeconv implements the typed value codec for the voltcalc
// parameter store. It maps between strongly-typed scalar values (text,
// boolean, integer, float, arbitrary-precision decimal, absent) and their
// single-line textual literal form, guaranteeing that a value survives a
// round trip through the flat configuration file with its exact type.
package typeconv
