package infrastructure

// 学校サイトなどで HTML の表として公開される年間行事予定の読み込み。
// 最初の table の tr/td を走査して行列に変換し、CSVと同じ解析経路に流す。

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ReadHTMLTableRows は HTML 文書の最初の表を文字列の行列に変換する。
// 表が見つからない場合はエラー。見出し行（th）はそのまま含め、後段の
// ヘッダー判定に任せる。
func ReadHTMLTableRows(r io.Reader) ([][]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("HTMLの解析に失敗しました: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("HTML内に表が見つかりませんでした")
	}

	rows := [][]string{}
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := []string{}
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		rows = append(rows, cells)
	})
	return rows, nil
}
