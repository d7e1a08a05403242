package domain

import (
	"errors"
	"fmt"
)

// 校验类错误，直接原样返回给调用方
var (
	ErrLeadTimeViolation = errors.New("硬性请求必须至少提前一天提交")
	ErrMalformedRequest  = errors.New("请求内容格式不正确")
	ErrSelfSwap          = errors.New("不能和自己换班")
	ErrBothIdle          = errors.New("双方当天都是休息日，无法换班")
	ErrNoOpTransfer      = errors.New("目标病区和当前病区相同")
	ErrSelfTransfer      = errors.New("不能转移自己的病区")
)

var (
	ErrPriorityQuotaExceeded = errors.New("每月最多只能有一条高优先级请求")
	ErrInsufficientStaff     = errors.New("病区护士人数不足")
)

// 状态类错误，对外只说明请求已被处理，不暴露内部状态名
var ErrRequestAlreadyHandled = errors.New("该请求已被处理")

// 权限类错误
var ErrForbidden = errors.New("没有权限执行该操作")

// 条件写入竞争失败，整个操作重试一次后仍失败则按状态类错误处理
var ErrConflict = errors.New("操作冲突，请重试")

// 优化服务相关错误，生成失败时绝不落库
var (
	ErrOptimizerTimeout = errors.New("排班计算超时，请增加计算时间后重试")
	ErrOptimizerFailed  = errors.New("排班服务调用失败")
)

// QuotaError 表示某个配额检查未通过，需要告知调用方当前用量和上限
type QuotaError struct {
	Scope   string
	Current int
	Limit   int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("%s已达上限（%d/%d）", e.Scope, e.Current, e.Limit)
}
