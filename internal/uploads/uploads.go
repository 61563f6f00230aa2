// Package uploads stores customer files on disk and hands back URLs the
// widget can reference from cart metadata.
package uploads

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/telexlabs/go-prodcalc/pkg/gateway"
	"github.com/telexlabs/go-prodcalc/pkg/validate"
)

// Service writes validated uploads under a base directory and addresses them
// below baseURL.
type Service struct {
	dir     string
	baseURL string
}

// New prepares the upload directory and returns a service. Stored files are
// served under baseURL/uploads/.
func New(dir, baseURL string) (*Service, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("uploads: create directory: %w", err)
	}
	return &Service{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the directory stored files live in.
func (s *Service) Dir() string {
	return s.dir
}

// Save validates the file's extension and size, writes it under a
// collision-free name, and returns its reference.
func (s *Service) Save(fileName string, size int64, content io.Reader) (gateway.FileRef, error) {
	if err := validate.Upload(fileName, size); err != nil {
		return gateway.FileRef{}, err
	}

	stored, err := storedName(fileName)
	if err != nil {
		return gateway.FileRef{}, err
	}

	dst, err := os.Create(filepath.Join(s.dir, stored))
	if err != nil {
		return gateway.FileRef{}, fmt.Errorf("uploads: create file: %w", err)
	}
	defer dst.Close()

	// Enforce the size limit on the actual stream, not just the declared
	// size.
	written, err := io.Copy(dst, io.LimitReader(content, validate.MaxUploadBytes+1))
	if err != nil {
		return gateway.FileRef{}, fmt.Errorf("uploads: write file: %w", err)
	}
	if written > validate.MaxUploadBytes {
		os.Remove(dst.Name())
		return gateway.FileRef{}, validate.Upload(fileName, written)
	}

	return gateway.FileRef{
		Name: filepath.Base(fileName),
		URL:  s.baseURL + "/uploads/" + stored,
	}, nil
}

// storedName prefixes the sanitized base name with random hex so repeated
// uploads of the same file never collide.
func storedName(fileName string) (string, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("uploads: generate file name: %w", err)
	}
	return hex.EncodeToString(buf[:]) + "-" + sanitizeBase(fileName), nil
}

func sanitizeBase(fileName string) string {
	base := filepath.Base(fileName)
	var builder strings.Builder
	builder.Grow(len(base))
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			builder.WriteRune(r)
		case r == '.', r == '-', r == '_':
			builder.WriteRune(r)
		default:
			builder.WriteByte('_')
		}
	}
	return builder.String()
}
