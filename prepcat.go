// Package prepcat serves a browsable catalog of study topics and previous
// year exam papers. It provides free-text search across both, per-item view
// counts, and a navigation model for presentation layers to render.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, http/, prometheus/).
package prepcat
