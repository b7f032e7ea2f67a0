// Package docqa provides retrieval-augmented question answering over a
// fixed documentation corpus. It loads a crawled corpus, indexes document
// sections by embedding similarity, retrieves the most relevant sections
// for a question, estimates answer confidence, and assembles a grounded
// answer with citations, optionally within a persisted conversation
// session.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency or mechanism (e.g., sqlite/, gemini/,
// memory/, fs/).
package docqa
