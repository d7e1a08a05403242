package utils

import (
	"math/rand"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

var weekdayBlackouts = []domain.RequestType{
	domain.RequestTypeNoMondays,
	domain.RequestTypeNoTuesdays,
	domain.RequestTypeNoWednesdays,
	domain.RequestTypeNoThursdays,
	domain.RequestTypeNoFridays,
	domain.RequestTypeNoSaturdays,
	domain.RequestTypeNoSundays,
}

var shiftBlackouts = []domain.RequestType{
	domain.RequestTypeNoMorningShifts,
	domain.RequestTypeNoAfternoonShifts,
	domain.RequestTypeNoNightShifts,
	domain.RequestTypeNoNightAfternoonDouble,
}

// GenerateRandomConstraints 随机生成 0~2 条长期约束
func GenerateRandomConstraints() []domain.NurseConstraint {
	constraints := make([]domain.NurseConstraint, 0, 2)

	n := rand.Intn(3)
	for i := 0; i < n; i++ {
		strength := domain.ConstraintStrengthSoft
		if rand.Intn(2) == 0 {
			strength = domain.ConstraintStrengthHard
		}

		var requestType domain.RequestType
		if rand.Intn(2) == 0 {
			requestType = weekdayBlackouts[rand.Intn(len(weekdayBlackouts))]
		} else {
			requestType = shiftBlackouts[rand.Intn(len(shiftBlackouts))]
		}

		constraints = append(constraints, domain.NurseConstraint{
			Type:     requestType,
			Strength: strength,
		})
	}

	return constraints
}

func GenerateRandomWard() domain.Ward {
	return domain.AllWards[rand.Intn(len(domain.AllWards))]
}

func GenerateRandomNurse(password string, emailDomainName string) (*domain.Nurse, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	nurse := &domain.Nurse{
		Username:             username,
		PasswordHash:         string(passwordHash),
		FullName:             fullName,
		Email:                username + "@" + emailDomainName,
		Ward:                 GenerateRandomWard(),
		IsGovernmentOfficial: rand.Intn(10) == 0,
		Constraints:          GenerateRandomConstraints(),
	}

	return nurse, nil
}

// GenerateRandomSoftEntries 随机生成某个月的软性请求集合，至多一条高优先级
func GenerateRandomSoftEntries(year, month int) []domain.SoftRequestEntry {
	daysInMonth := int32(domain.DaysInMonth(year, month))
	n := rand.Intn(domain.MaxSoftRequestEntries) + 1
	highPriorityIndex := rand.Intn(n)

	entries := make([]domain.SoftRequestEntry, 0, n)
	for i := 0; i < n; i++ {
		entry := domain.SoftRequestEntry{
			IsHighPriority: i == highPriorityIndex && rand.Intn(2) == 0,
		}

		switch rand.Intn(4) {
		case 0:
			entry.Type = weekdayBlackouts[rand.Intn(len(weekdayBlackouts))]
		case 1:
			entry.Type = shiftBlackouts[rand.Intn(len(shiftBlackouts))]
		case 2:
			entry.Type = domain.RequestTypeNoSpecificDays
			dayCount := rand.Intn(domain.MaxNoSpecificDays) + 1
			for j := 0; j < dayCount; j++ {
				entry.Days = append(entry.Days, rand.Int31n(daysInMonth)+1)
			}
		case 3:
			entry.Type = domain.RequestTypeSpecificShiftsOnDays
			shiftCount := rand.Intn(domain.MaxSpecificShifts) + 1
			for j := 0; j < shiftCount; j++ {
				entry.Shifts = append(entry.Shifts, domain.SpecificShift{
					Day:   rand.Int31n(daysInMonth) + 1,
					Shift: domain.ShiftCode(rand.Intn(4) + 1),
				})
			}
		}

		entries = append(entries, entry)
	}

	return entries
}

// GenerateRandomFutureDate 未来 1~60 天内的随机日期
func GenerateRandomFutureDate() time.Time {
	return time.Now().AddDate(0, 0, rand.Intn(60)+1)
}
