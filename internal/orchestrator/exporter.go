package orchestrator

import (
	"context"
	"fmt"
	"io"

	"github.com/hksynth/hksynth-cli/internal/dataset"
	"github.com/hksynth/hksynth-cli/internal/encoding"
	"github.com/hksynth/hksynth-cli/internal/models"
	"github.com/hksynth/hksynth-cli/internal/store"
)

// ExportDocument writes a generated document to path, compressed according
// to the path extension.
func ExportDocument(doc models.Document, path string) error {
	w, err := dataset.Create(path)
	if err != nil {
		return err
	}
	if err := encoding.NewWriter(w).WriteDocument(doc); err != nil {
		w.Close()
		return fmt.Errorf("failed to write document: %w", err)
	}
	return w.Close()
}

// ExportStore streams stored records of the given types into a dataset file,
// page by page, laid out the same way the writer renders generated
// documents. Types with no stored records are left out. Returns the record
// count written.
func ExportStore(ctx context.Context, st store.HealthStore, types []string, path string, pageSize int) (int, error) {
	if pageSize <= 0 {
		pageSize = 200
	}
	w, err := dataset.Create(path)
	if err != nil {
		return 0, err
	}
	write := func(s string) error {
		_, werr := io.WriteString(w, s)
		return werr
	}

	total := 0
	export := func() error {
		if err := write("{"); err != nil {
			return err
		}
		wroteType := false
		for _, name := range types {
			token := ""
			open := false
			for {
				if err := ctx.Err(); err != nil {
					return err
				}
				page, err := st.Query(ctx, name, token, pageSize)
				if err != nil {
					return err
				}
				for _, rec := range page.Records {
					switch {
					case !open && wroteType:
						if err := write("," + encoding.Quote(name) + ":["); err != nil {
							return err
						}
					case !open:
						if err := write(encoding.Quote(name) + ":["); err != nil {
							return err
						}
					default:
						if err := write(","); err != nil {
							return err
						}
					}
					open = true
					wroteType = true
					if _, err := w.Write(rec.Payload); err != nil {
						return err
					}
					total++
				}
				if page.NextToken == "" {
					break
				}
				token = page.NextToken
			}
			if open {
				if err := write("]"); err != nil {
					return err
				}
			}
		}
		return write("}")
	}

	if err := export(); err != nil {
		w.Close()
		return total, fmt.Errorf("failed to export store: %w", err)
	}
	return total, w.Close()
}
