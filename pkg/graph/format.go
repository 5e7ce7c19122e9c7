package graph

import "golang.org/x/tools/imports"

// formatSource runs the generated source through goimports: it both
// gofmt-formats the file and resolves/prunes the import block, so emit.go
// never has to track exactly which of bbrt/context/bytes/fmt a particular
// schema ends up needing.
func formatSource(src string) (string, error) {
	out, err := imports.Process("generated.go", []byte(src), nil)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
