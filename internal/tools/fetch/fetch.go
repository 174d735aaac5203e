// Package fetch downloads schema documents from the sources the CLI
// accepts: local paths, http(s) urls and everything else go-getter
// understands.
package fetch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/avast/retry-go"
	fgetter "github.com/hashicorp/go-getter"
)

const errorLocalPath = "relative paths require a module with a pwd"

// Document downloads the document at src into a temporary location and
// returns its contents. Transient failures are retried a few times.
func Document(src string) ([]byte, error) {
	baseDir, err := os.MkdirTemp("", "structgen-")
	if err != nil {
		return nil, fmt.Errorf("creating download directory: %w", err)
	}
	defer os.RemoveAll(baseDir)

	dst := filepath.Join(baseDir, filepath.Base(src))
	err = retry.Do(
		func() error {
			err := fgetter.GetFile(dst, src)
			if err != nil && err.Error() == errorLocalPath {
				abs, err := filepath.Abs(src)
				if err != nil {
					return fmt.Errorf("resolving absolute path: %w", err)
				}
				return fgetter.GetFile(dst, abs)
			}
			return err
		},
		retry.Attempts(3),
	)
	if err != nil {
		return nil, fmt.Errorf("downloading %q: %w", src, err)
	}

	return os.ReadFile(dst)
}
