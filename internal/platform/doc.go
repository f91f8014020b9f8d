// Package platform provides the cross-platform filesystem operations the
// baseline workflow relies on: idempotent directory creation, file copies
// that keep permissions, and non-recursive file lookup. Permission bits are
// not applied on Windows.
package platform
