package domain

import (
	"fmt"
	"time"
)

// DaysInMonth 某年某月的天数
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// PreviousPeriod 上一个排班周期
func PreviousPeriod(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// PeriodRange 某周期的首尾日期，格式 "YYYY-MM-DD"
func PeriodRange(year, month int) (string, string) {
	start := fmt.Sprintf("%04d-%02d-01", year, month)
	end := fmt.Sprintf("%04d-%02d-%02d", year, month, DaysInMonth(year, month))
	return start, end
}

// PeriodDays 某周期内所有日期的列表，格式 "YYYY-MM-DD"
func PeriodDays(year, month int) []string {
	n := DaysInMonth(year, month)
	days := make([]string, 0, n)
	for d := 1; d <= n; d++ {
		days = append(days, fmt.Sprintf("%04d-%02d-%02d", year, month, d))
	}
	return days
}
