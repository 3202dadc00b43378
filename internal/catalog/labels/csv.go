package labels

import (
	"encoding/csv"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// WriteCSV writes one record per row. For Shift_JIS, characters that have no
// CP932 mapping are replaced rather than failing the whole sheet.
func WriteCSV(w io.Writer, rows []Row, enc Encoding) error {
	var tw io.WriteCloser
	if enc == EncodingShiftJIS {
		// Windowsの「ANSI（CP932）」相当。ラベルソフトはこちらを読む
		tw = transform.NewWriter(w, encoding.ReplaceUnsupported(japanese.ShiftJIS.NewEncoder()))
		w = tw
	}

	cw := csv.NewWriter(w)
	for _, r := range rows {
		if err := cw.Write(r.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	if tw != nil {
		// 末尾のバッファを吐き出す
		return tw.Close()
	}
	return nil
}
