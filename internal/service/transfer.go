package service

import (
	"bytes"
	"context"
	"fmt"

	"vectoradmin/internal/chroma"
	"vectoradmin/internal/contextutil"
	"vectoradmin/internal/export"
	"vectoradmin/internal/mirror"
)

// Export fetches a whole collection.
func (c *Console) Export(ctx context.Context, nameOrID string, onProgress export.ProgressFunc) (export.Document, error) {
	if nameOrID == "" {
		return export.Document{}, &ValidationError{Field: "collection", Message: "cannot be empty"}
	}
	doc, err := export.Export(ctx, c.client, nameOrID, onProgress)
	if err != nil {
		return export.Document{}, WrapError(err, "export")
	}
	return doc, nil
}

// SaveExport writes doc to the configured export store and returns its key.
func (c *Console) SaveExport(ctx context.Context, doc export.Document) (string, error) {
	if c.files == nil {
		return "", WrapError(ErrNotConfigured, "export store")
	}
	var buf bytes.Buffer
	if err := export.Encode(&buf, doc); err != nil {
		return "", err
	}
	key := doc.FileName()
	if err := c.files.Save(ctx, key, bytes.NewReader(buf.Bytes()), int64(buf.Len())); err != nil {
		return "", WrapError(err, fmt.Sprintf("save export %s", key))
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "export saved",
		"store", c.files.Type(), "key", key, "bytes", buf.Len())
	return key, nil
}

// Import writes doc into a collection named name, or doc.Name when empty.
func (c *Console) Import(ctx context.Context, doc export.Document, name string) (chroma.Collection, error) {
	res, err := export.Import(ctx, c.client, doc, export.ImportOptions{Name: name})
	if err != nil {
		return chroma.Collection{}, WrapError(err, "import")
	}
	detail := fmt.Sprintf("%d records from %s", res.Imported, doc.Name)
	if res.Skipped > 0 {
		detail += fmt.Sprintf(" (%d skipped without embedding or document)", res.Skipped)
	}
	c.record(ctx, "import", res.Collection.Name, detail)
	return res.Collection, nil
}

// Mirror exports a collection and copies it into the mirror target.
func (c *Console) Mirror(ctx context.Context, nameOrID, target string) (mirror.Report, error) {
	if c.mirror == nil {
		return mirror.Report{}, WrapError(ErrNotConfigured, "mirror target")
	}
	if target == "" {
		return mirror.Report{}, &ValidationError{Field: "target", Message: "cannot be empty"}
	}
	doc, err := c.Export(ctx, nameOrID, nil)
	if err != nil {
		return mirror.Report{}, err
	}
	report, err := c.mirror.Copy(ctx, doc, target)
	if err != nil {
		return report, WrapError(err, "mirror")
	}
	c.record(ctx, "mirror", doc.Name, fmt.Sprintf("%d points to %s", report.Mirrored, target))
	return report, nil
}
