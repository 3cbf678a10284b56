package infrastructure

// 内閣府公表の祝日CSVから祝日テーブルを更新するためのフェッチャ。
// 取得は利用者の明示的な操作でのみ行い、失敗してもリトライせず
// そのまま呼び出し元に返す（組み込みの静的テーブルが既定値として残る）。

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"attendance-calc/domain"
)

// 内閣府「国民の祝日」CSV（Shift_JIS）
const holidaysCSVURL = "https://www8.cao.go.jp/chosei/shukujitsu/syukujitsu.csv"

// HolidayFetcher は祝日CSVを取得して年ごとの祝日リストに変換する。
type HolidayFetcher struct {
	url    string
	client *http.Client
}

// NewHolidayFetcher はフェッチャを生成する。
func NewHolidayFetcher() *HolidayFetcher {
	return &HolidayFetcher{
		url:    holidaysCSVURL,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch は祝日CSVを取得し、指定した年の範囲に絞って
// 年→祝日日付（YYYY-MM-DD、昇順は呼び出し側で保証される）を返す。
func (f *HolidayFetcher) Fetch(fromYear, toYear int) (map[int][]string, error) {
	req, err := http.NewRequest(http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "attendance-calc/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("祝日CSVの取得に失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("祝日CSVの取得に失敗しました: status %d", resp.StatusCode)
	}

	// CSVは Shift_JIS で配布されている
	decoded := transform.NewReader(resp.Body, japanese.ShiftJIS.NewDecoder())
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("祝日CSVの解析に失敗しました: %w", err)
	}

	byYear := map[int][]string{}
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		date, err := time.ParseInLocation("2006/1/2", strings.TrimSpace(row[0]), time.Local)
		if err != nil {
			// 見出し行など
			continue
		}
		year := date.Year()
		if year < fromYear || year > toYear {
			continue
		}
		byYear[year] = append(byYear[year], domain.DateKey(date))
	}
	return byYear, nil
}

// Refresh は取得した祝日で祝日テーブルを年ごとに差し替え、更新した年数を返す。
func (f *HolidayFetcher) Refresh(fromYear, toYear int) (int, error) {
	byYear, err := f.Fetch(fromYear, toYear)
	if err != nil {
		return 0, err
	}
	for year, dates := range byYear {
		domain.SetHolidays(year, dates)
	}
	return len(byYear), nil
}
