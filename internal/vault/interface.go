// Package vault is the filesystem boundary of tripkit. A vault is a single
// directory tree addressed with slash-delimited paths relative to its root;
// everything the scaffolding engine reads or creates goes through the Vault
// interface.
//
//go:generate mockgen -package mockvault -source=interface.go -destination=mock/mockvault.go *
package vault

import "context"

// Vault exposes the minimal set of operations scaffolding needs.
type Vault interface {
	// Exists reports whether any entry (folder or document) is at p.
	Exists(ctx context.Context, p string) (bool, error)
	// IsDocument reports whether p exists and is a regular document.
	IsDocument(ctx context.Context, p string) (bool, error)
	// CreateFolder creates p and any missing parents.
	CreateFolder(ctx context.Context, p string) error
	// CreateDocument creates p with content. It fails if p already exists.
	CreateDocument(ctx context.Context, p, content string) error
	// ReadDocument returns the full text of the document at p.
	ReadDocument(ctx context.Context, p string) (string, error)
}
