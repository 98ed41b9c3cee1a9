package ehour

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"
)

// Receipts fetches the receipt bundle for an expense and returns a map
// from filename to raw file content. The endpoint serves the receipts as
// a single zip archive.
func (c *Client) Receipts(ctx context.Context, expenseID string) (map[string][]byte, error) {
	body, err := c.doGet(ctx, "expenses/"+expenseID+"/receipts", nil, maxArchiveSize)
	if err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, schemaErrorf("expense %s: receipt bundle is not a zip archive: %v", expenseID, err)
	}

	files := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("ehour: opening receipt %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("ehour: reading receipt %s: %w", f.Name, err)
		}
		files[f.Name] = data
	}
	return files, nil
}
