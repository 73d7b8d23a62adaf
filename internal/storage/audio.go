package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// defaultUploadExt is used when the upload has no filename extension.
const defaultUploadExt = ".m4a"

// SaveTemp copies an uploaded file into a uniquely named temp file and returns its path
// with a cleanup func that removes it. The original extension is kept so decoders can
// sniff the container.
func SaveTemp(file *multipart.FileHeader) (string, func(), error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" || len(ext) > 8 || strings.ContainsAny(ext, `/\`) {
		ext = defaultUploadExt
	}

	dst, err := os.CreateTemp("", "upload-*"+ext)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	cleanup := func() { os.Remove(dst.Name()) }

	if err := saveMultipartFile(file, dst); err != nil {
		dst.Close()
		cleanup()
		return "", nil, fmt.Errorf("failed to save file: %w", err)
	}
	if err := dst.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to save file: %w", err)
	}
	return dst.Name(), cleanup, nil
}

// EnsureOutputDir creates the directory generated audio is written to.
func EnsureOutputDir(staticDir string) (string, error) {
	dir := filepath.Join(staticDir, "tts")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return dir, nil
}

/* helper */
func saveMultipartFile(file *multipart.FileHeader, out io.Writer) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	_, err = io.Copy(out, src)
	return err
}
