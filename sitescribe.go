// Package sitescribe crawls a single website breadth-first, extracts the
// heading and paragraph structure of its pages, and hands that structure to an
// external language model that writes new content from it.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, robotstxt/, gemini/).
package sitescribe
