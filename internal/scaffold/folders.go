// Package scaffold lays out vault folders and bootstraps new vaults.
package scaffold

import "github.com/suykerbuyk/mlsummary/internal/host"

// Folders is the standard vault layout, parents before children.
var Folders = []string{
	"Topics",
	"Notes",
	"Notes/Read",
	"Concepts",
	"Attachments",
	"Files",
	"Files/PDFs",
}

// InitFolders asks vault to create every folder in Folders. Failures,
// including folders that already exist, are ignored and do not stop the
// remaining creations.
func InitFolders(vault host.Vault) {
	for _, f := range Folders {
		_ = vault.CreateFolder(f)
	}
}
