package domain

// ゲージ表示用のステータス判定。

// GaugeStatus は条件達成までの残り日数に応じた段階（カウントダウン方式）。
type GaugeStatus string

const (
	GaugeCleared   GaugeStatus = "cleared"   // 0日以下: 条件クリア・超過達成
	GaugeSoon      GaugeStatus = "soon"      // 1〜5日: あと少し
	GaugeRemaining GaugeStatus = "remaining" // 6日以上: まだ多く出席が必要
)

// RemainingDaysStatus は「必要な出席日数 − 出席実績」からゲージ段階を返す。
func RemainingDaysStatus(remainingDays int) GaugeStatus {
	if remainingDays <= 0 {
		return GaugeCleared
	}
	if remainingDays <= 5 {
		return GaugeSoon
	}
	return GaugeRemaining
}

// BufferStatus はダッシュボードの余裕日数の段階。
type BufferStatus string

const (
	BufferSafe    BufferStatus = "safe"
	BufferWarning BufferStatus = "warning"
	BufferDanger  BufferStatus = "danger"
)

// 余裕日数がこの値以下で「注意」、0以下で「不足」
const bufferWarningThreshold = 3

// BufferStatusOf は余裕日数から段階を返す。
func BufferStatusOf(bufferDays int) BufferStatus {
	if bufferDays <= 0 {
		return BufferDanger
	}
	if bufferDays <= bufferWarningThreshold {
		return BufferWarning
	}
	return BufferSafe
}

// Percent は達成率（0〜100）を返す。分母が 0 以下なら 0%。
func Percent(actual, required int) int {
	if required <= 0 {
		return 0
	}
	p := actual * 100 / required
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}
