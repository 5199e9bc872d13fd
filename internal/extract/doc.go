// Package extract finds shipping-container codes in waybill text and scores
// how plausible each candidate is for the document at hand.
//
// Matching runs two regular-expression passes: a keyword-anchored priority
// pass and a bare-shape fallback used only when the priority pass finds
// nothing. Scoring combines prefix reputation with keyword proximity and is
// deterministic for a given text and set of tables.
package extract
