package infrastructure

// 旧来の .xls 形式で配布される年間行事予定の読み込み。
// 先頭シートのセルを走査して行列に変換し、CSVと同じ解析経路に流す。

import (
	"fmt"
	"io"

	"github.com/extrame/xls"
)

// 年間行事予定で使う列は A〜J まで
const maxScheduleColumns = 10

// ReadXLSRows は .xls ブックの先頭シートを文字列の行列に変換する。
// charset は空なら UTF-8 として読む。
func ReadXLSRows(r io.ReadSeeker, charset string) ([][]string, error) {
	if charset == "" {
		charset = "utf-8"
	}
	book, err := xls.OpenReader(r, charset)
	if err != nil {
		return nil, fmt.Errorf("XLSファイルを開けませんでした: %w", err)
	}

	sheet := book.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("XLSファイルにシートがありません")
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for rowIndex := 0; rowIndex <= int(sheet.MaxRow); rowIndex++ {
		row := sheet.Row(rowIndex)
		cells := make([]string, maxScheduleColumns)
		if row != nil {
			for col := 0; col < maxScheduleColumns; col++ {
				cells[col] = row.Col(col)
			}
		}
		rows = append(rows, cells)
	}
	return rows, nil
}
