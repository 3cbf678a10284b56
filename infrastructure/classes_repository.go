package infrastructure

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"attendance-calc/domain"
)

// ClassesConfig はYAMLファイルに保存する授業一覧
type ClassesConfig struct {
	Classes []domain.ClassRecord `yaml:"classes"`
}

// YAMLClassRepository は登録授業をYAMLファイルで永続化するリポジトリ。
// 授業の削除で時数増減・出席実績・実施記録も一緒に消える（同一レコードのため）。
type YAMLClassRepository struct {
	filename string
	mutex    sync.RWMutex
}

// NewYAMLClassRepository はリポジトリを生成する。
func NewYAMLClassRepository(filename string) *YAMLClassRepository {
	return &YAMLClassRepository{filename: filename}
}

// NewClassID は授業IDとして使う不透明なトークンを生成する。
func NewClassID() string {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%010x", os.Getpid())
	}
	return hex.EncodeToString(buf)
}

// LoadClasses は授業一覧を登録順で返す。ファイルが無ければ空リスト。
func (r *YAMLClassRepository) LoadClasses() ([]domain.ClassRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.loadUnsafe()
}

// AddClass は授業を末尾に追加する。IDが未設定なら採番する。
func (r *YAMLClassRepository) AddClass(rec domain.ClassRecord) (domain.ClassRecord, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	records, err := r.loadUnsafe()
	if err != nil {
		return domain.ClassRecord{}, err
	}

	if rec.Class.ID == "" {
		rec.Class.ID = NewClassID()
	}
	for _, existing := range records {
		if existing.Class.ID == rec.Class.ID {
			return domain.ClassRecord{}, fmt.Errorf("授業ID %s は既に存在します", rec.Class.ID)
		}
	}

	records = append(records, rec)
	if err := r.saveUnsafe(records); err != nil {
		return domain.ClassRecord{}, err
	}
	return rec, nil
}

// GetClass はIDで授業を取得する。
func (r *YAMLClassRepository) GetClass(id string) (domain.ClassRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	records, err := r.loadUnsafe()
	if err != nil {
		return domain.ClassRecord{}, err
	}
	for _, rec := range records {
		if rec.Class.ID == id {
			return rec, nil
		}
	}
	return domain.ClassRecord{}, fmt.Errorf("授業 %s が見つかりません", id)
}

// UpdateClass はIDで授業を更新する。登録順は変えない。
func (r *YAMLClassRepository) UpdateClass(id string, updated domain.ClassRecord) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	records, err := r.loadUnsafe()
	if err != nil {
		return err
	}
	for i, rec := range records {
		if rec.Class.ID == id {
			updated.Class.ID = id
			records[i] = updated
			return r.saveUnsafe(records)
		}
	}
	return fmt.Errorf("授業 %s が見つかりません", id)
}

// DeleteClass はIDで授業を削除する。付随するデータも同時に消える。
func (r *YAMLClassRepository) DeleteClass(id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	records, err := r.loadUnsafe()
	if err != nil {
		return err
	}
	for i, rec := range records {
		if rec.Class.ID == id {
			records = append(records[:i], records[i+1:]...)
			return r.saveUnsafe(records)
		}
	}
	return fmt.Errorf("授業 %s が見つかりません", id)
}

func (r *YAMLClassRepository) loadUnsafe() ([]domain.ClassRecord, error) {
	data, err := os.ReadFile(r.filename)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.ClassRecord{}, nil
		}
		return nil, fmt.Errorf("ファイルを読み込めませんでした: %w", err)
	}

	var config ClassesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("YAMLを解析できませんでした: %w", err)
	}
	return config.Classes, nil
}

func (r *YAMLClassRepository) saveUnsafe(records []domain.ClassRecord) error {
	data, err := yaml.Marshal(ClassesConfig{Classes: records})
	if err != nil {
		return fmt.Errorf("YAMLへの変換に失敗しました: %w", err)
	}
	if err := os.WriteFile(r.filename, data, 0644); err != nil {
		return fmt.Errorf("ファイルを書き込めませんでした: %w", err)
	}
	return nil
}
