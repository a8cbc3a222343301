package models

// ============================================================================
// ENTITY KIND CONSTANTS
// ============================================================================

// Entity kind names used in NotFoundError and event payloads
const (
	KindItem       = "item"
	KindProject    = "project"
	KindSection    = "section"
	KindLabel      = "label"
	KindReminder   = "reminder"
	KindAttachment = "attachment"
)

// ============================================================================
// VIEW STYLE CONSTANTS
// ============================================================================

// Project view styles
const (
	ViewStyleList  = "list"
	ViewStyleBoard = "board"
)

// ============================================================================
// ORDERING CONSTANTS
// ============================================================================

// DefaultChildOrder is the order assigned to new items (appended at the end)
const DefaultChildOrder = 9999

// MaxContentLength is the maximum length of item content
const MaxContentLength = 500

// MaxNameLength is the maximum length of project, section, and label names
const MaxNameLength = 120
