// Package fidata extracts FastIron feature support matrices and release notes
// into JSON datasets and provides filtering, search, and comparison over them.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, pdf/, gemini/).
package fidata
