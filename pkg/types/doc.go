// Package types defines the core domain entities shared across Stride
// packages: tasks, sections, folders, tags, and smart folders, plus the
// reorder payload applied during drag-and-drop rank reassignment.
package types
