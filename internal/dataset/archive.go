package dataset

import (
	"fmt"
	"os"

	"github.com/dsnet/compress/bzip2"
	"github.com/go-gota/gota/dataframe"
)

// WriteArchive writes a table as a bzip2-compressed CSV at path, in the
// same shape Load expects back. The standard library only decodes bzip2,
// so compression goes through dsnet's encoder.
func WriteArchive(path string, df dataframe.DataFrame) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close archive: %w", cerr)
		}
	}()

	zw, err := bzip2.NewWriter(f, &bzip2.WriterConfig{Level: bzip2.DefaultCompression})
	if err != nil {
		return fmt.Errorf("bzip2 writer: %w", err)
	}

	if err := df.WriteCSV(zw); err != nil {
		zw.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush bzip2: %w", err)
	}
	return nil
}
