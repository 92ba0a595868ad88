package model

// Package model defines domain data structures used across the app: work
// items, dry-run resolution entries, and status enums. Structures are designed
// for direct rendering in the console and explicit state transitions.
