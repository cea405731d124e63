package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Save writes the serialized document to w.
func (app *Application) Save(w io.Writer) error {
	if _, err := app.doc.WriteTo(w); err != nil {
		return NewOperationError("save", "", err)
	}
	return nil
}

// SaveFile writes the document to path through a temporary file in the
// same directory, so a failed write leaves the old file intact.
func (app *Application) SaveFile(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return NewOperationError("save", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := app.doc.WriteTo(tmp); err != nil {
		tmp.Close()
		return NewOperationError("save", path, err)
	}
	if err := tmp.Close(); err != nil {
		return NewOperationError("save", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return NewOperationError("save", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return NewOperationError("save", path, fmt.Errorf("replace: %w", err))
	}
	app.logger.Debug("saved %s", path)
	return nil
}
