package extract

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// MaxTextLength 上传文件提取后的最大字符数
const MaxTextLength = 10000

// FlattenCSV 把 CSV 数据行的所有单元格用空格拼接，首行视为表头不参与分析
func FlattenCSV(r io.Reader) (string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var (
		cells  []string
		length int
	)
	header := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse csv failed: %w", err)
		}
		if header {
			header = false
			continue
		}
		for _, cell := range record {
			if cell = strings.TrimSpace(cell); cell != "" {
				cells = append(cells, cell)
				length += utf8.RuneCountInString(cell) + 1
			}
		}
		// 已够截断长度，后面的行不再读取
		if length > MaxTextLength {
			break
		}
	}

	return truncate(strings.Join(cells, " "), MaxTextLength), nil
}

// PDFText 提取 PDF 所有页面的纯文本，超长部分截断
func PDFText(r io.ReaderAt, size int64) (text string, err error) {
	// 损坏的文件可能让解析库 panic
	defer func() {
		if p := recover(); p != nil {
			text, err = "", fmt.Errorf("%w: malformed pdf", ErrNoContent)
		}
	}()

	doc, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoContent, err)
	}
	plain, err := doc.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoContent, err)
	}
	data, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("read pdf text failed: %w", err)
	}

	text = strings.TrimSpace(string(data))
	if text == "" {
		return "", ErrNoContent
	}
	return truncate(text, MaxTextLength), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
