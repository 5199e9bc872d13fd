// Package llm implements the secondary container-code extractor on top of an
// OpenAI-compatible chat completion API. It is consulted only when the
// heuristic scorer is unsure, and every code it proposes is re-verified
// against the source text by the caller.
package llm
