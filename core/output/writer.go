package output

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"slcsp/internal/errors"
)

// Stdout is the destination name that selects the caller's stdout writer.
const Stdout = "-"

// Write renders table completely before anything reaches dest, so a
// failure leaves no partial output behind. dest "" or "-" writes to
// stdout; any other value is a file path, written through a temporary file
// in the same directory and renamed into place.
func Write(dest string, stdout io.Writer, formatter Formatter, table *Table) error {
	var buf bytes.Buffer
	if err := formatter.Render(&buf, table); err != nil {
		return errors.Output("failed to render "+string(formatter.Format())+" output", err)
	}

	if dest == "" || dest == Stdout {
		if _, err := stdout.Write(buf.Bytes()); err != nil {
			return errors.Output("failed to write output", err)
		}
		return nil
	}

	return writeFileAtomic(dest, buf.Bytes())
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Output("failed to create output file in "+dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Output("failed to write "+path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Output("failed to write "+path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return errors.Output("failed to write "+path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Output("failed to move output into place at "+path, err)
	}
	return nil
}
