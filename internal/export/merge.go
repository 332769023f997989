package export

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/profile-cli/internal/model"
	"github.com/sells-group/profile-cli/internal/resolve"
)

// DefaultMergeKey is the source column joined against when the caller
// does not name one.
const DefaultMergeKey = "url"

// Merge joins linked-account columns onto an existing CSV. The source
// file passes through row by row with its column order untouched; rows
// whose key column matches a stored record (after URL canonicalization)
// gain the dynamic account cells, everything else gets empty cells of
// the same width. Short rows are padded to the header width first so the
// appended columns stay aligned.
func Merge(records []model.ProfileRecord, src io.Reader, dst io.Writer, keyColumn string) error {
	if keyColumn == "" {
		keyColumn = DefaultMergeKey
	}

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return eris.New("merge: source csv is empty")
	}
	if err != nil {
		return eris.Wrap(err, "merge: read header")
	}

	keyIdx := -1
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), keyColumn) {
			keyIdx = i
			break
		}
	}
	if keyIdx < 0 {
		zap.L().Warn("merge: key column not found, rows will pass through unmatched",
			zap.String("key", keyColumn),
		)
	}

	byKey := make(map[string]model.ProfileRecord, len(records))
	for _, rec := range records {
		if key := resolve.CanonicalURL(rec.URL); key != "" {
			byKey[key] = rec
		}
	}
	maxLinked := MaxLinkedAccounts(records)

	writer := csv.NewWriter(dst)
	outHeader := make([]string, 0, len(header)+4*maxLinked)
	outHeader = append(outHeader, header...)
	outHeader = append(outHeader, Header(maxLinked)[len(BaseColumns):]...)
	if err := writer.Write(outHeader); err != nil {
		return eris.Wrap(err, "merge: write header")
	}

	var matched, unmatched int
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return eris.Wrap(err, "merge: read row")
		}
		for len(row) < len(header) {
			row = append(row, "")
		}

		var accounts []model.LinkedAccount
		if keyIdx >= 0 && keyIdx < len(row) {
			if rec, ok := byKey[resolve.CanonicalURL(row[keyIdx])]; ok {
				accounts = rec.LinkedAccounts
				matched++
			} else {
				unmatched++
			}
		} else {
			unmatched++
		}

		row = append(row, AccountCells(accounts, maxLinked)...)
		if err := writer.Write(row); err != nil {
			return eris.Wrap(err, "merge: write row")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return eris.Wrap(err, "merge: flush")
	}

	zap.L().Info("merge complete",
		zap.Int("matched", matched),
		zap.Int("unmatched", unmatched),
		zap.Int("linkedColumns", 4*maxLinked),
	)
	return nil
}

// MergeFile runs Merge between two file paths.
func MergeFile(records []model.ProfileRecord, srcPath, dstPath, keyColumn string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return eris.Wrapf(err, "merge: open %s", srcPath)
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return eris.Wrapf(err, "merge: create %s", dstPath)
	}
	if err := Merge(records, src, dst, keyColumn); err != nil {
		dst.Close()
		return err
	}
	return eris.Wrapf(dst.Close(), "merge: close %s", dstPath)
}
