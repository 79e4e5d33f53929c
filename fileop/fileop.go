package fileop

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// CheckDest fails if dest already exists.
func CheckDest(dest string) error {
	destFileInfo, err := os.Stat(dest)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("cannot stat destination file %q: %w", dest, err)
		}
	} else {
		return fmt.Errorf("destination file already exists: %q", destFileInfo.Name())
	}

	return nil
}

// WriteAtomic calls write with a temporary file next to dest and renames it
// over dest once write, sync and close all succeeded. On failure the
// temporary file is removed and dest is left as it was.
func WriteAtomic(dest string, write func(io.Writer) error) (err error) {
	destDir, destName := filepath.Split(dest)
	if destDir == "" {
		destDir = "."
	}

	outFile, err := os.CreateTemp(destDir, destName+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temporary destination for %q: %w", dest, err)
	}
	tmpName := outFile.Name()

	canRename := false
	defer func() {
		if canRename {
			if defErr := outFile.Sync(); defErr != nil {
				err = fmt.Errorf("could not flush temporary destination %q: %w", tmpName, defErr)
				canRename = false
			}
		}
		if defErr := outFile.Close(); defErr != nil && canRename {
			err = fmt.Errorf("could not close temporary destination %q: %w", tmpName, defErr)
			canRename = false
		}

		if canRename {
			if defErr := os.Rename(tmpName, dest); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", dest, defErr)
			} else {
				return
			}
		}

		if defErr := os.Remove(tmpName); defErr != nil {
			slog.Error("could not remove temporary file", "name", tmpName, "error", defErr)
		}
	}()

	if err = write(outFile); err != nil {
		return err
	}
	if err = outFile.Chmod(0o644); err != nil {
		return fmt.Errorf("could not set mode of temporary destination %q: %w", tmpName, err)
	}

	canRename = true
	return nil
}
