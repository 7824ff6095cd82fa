package models

// VisitorStatus represents the lifecycle state of a visitor admission record
type VisitorStatus string

const (
	VisitorStatusPending   VisitorStatus = "pending"
	VisitorStatusApproved  VisitorStatus = "approved"
	VisitorStatusDenied    VisitorStatus = "denied"
	VisitorStatusCheckedIn VisitorStatus = "checked_in"
	VisitorStatusExited    VisitorStatus = "exited"
)

// DeliveryStatus represents the lifecycle state of a delivery request
type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "pending"
	DeliveryStatusApproved  DeliveryStatus = "approved" // 已进入小区
	DeliveryStatusCompleted DeliveryStatus = "completed"
	DeliveryStatusCancelled DeliveryStatus = "cancelled"
)

// 访客状态转换表，所有合法转换集中在这里维护
var visitorTransitions = map[VisitorStatus][]VisitorStatus{
	VisitorStatusPending:   {VisitorStatusApproved, VisitorStatusDenied},
	VisitorStatusApproved:  {VisitorStatusCheckedIn},
	VisitorStatusCheckedIn: {VisitorStatusExited},
}

// 快递状态转换表
var deliveryTransitions = map[DeliveryStatus][]DeliveryStatus{
	DeliveryStatusPending:  {DeliveryStatusApproved, DeliveryStatusCancelled},
	DeliveryStatusApproved: {DeliveryStatusCompleted},
}

// IsTerminal 返回该状态是否为终态
func (s VisitorStatus) IsTerminal() bool {
	return s == VisitorStatusDenied || s == VisitorStatusExited
}

// CanTransition 返回从当前状态到目标状态的转换是否合法
func (s VisitorStatus) CanTransition(to VisitorStatus) bool {
	for _, next := range visitorTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal 返回该状态是否为终态
func (s DeliveryStatus) IsTerminal() bool {
	return s == DeliveryStatusCompleted || s == DeliveryStatusCancelled
}

// CanTransition 返回从当前状态到目标状态的转换是否合法
func (s DeliveryStatus) CanTransition(to DeliveryStatus) bool {
	for _, next := range deliveryTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IsVisitorStatus 返回该字符串是否为已知的访客状态
func IsVisitorStatus(s string) bool {
	switch VisitorStatus(s) {
	case VisitorStatusPending, VisitorStatusApproved, VisitorStatusDenied,
		VisitorStatusCheckedIn, VisitorStatusExited:
		return true
	}
	return false
}

// IsDeliveryStatus 返回该字符串是否为已知的快递状态
func IsDeliveryStatus(s string) bool {
	switch DeliveryStatus(s) {
	case DeliveryStatusPending, DeliveryStatusApproved,
		DeliveryStatusCompleted, DeliveryStatusCancelled:
		return true
	}
	return false
}

// VisitorActiveStatuses 返回所有非终态的访客状态，用于限定通行码查询范围
func VisitorActiveStatuses() []VisitorStatus {
	return []VisitorStatus{VisitorStatusPending, VisitorStatusApproved, VisitorStatusCheckedIn}
}

// DeliveryActiveStatuses 返回所有非终态的快递状态
func DeliveryActiveStatuses() []DeliveryStatus {
	return []DeliveryStatus{DeliveryStatusPending, DeliveryStatusApproved}
}
