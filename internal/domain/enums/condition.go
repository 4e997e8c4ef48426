package enums

import "strings"

type Condition string

const (
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
	ConditionPoor      Condition = "poor"
)

func ParseCondition(value string) (Condition, bool) {
	switch Condition(strings.ToLower(strings.TrimSpace(value))) {
	case ConditionExcellent:
		return ConditionExcellent, true
	case ConditionGood:
		return ConditionGood, true
	case ConditionFair:
		return ConditionFair, true
	case ConditionPoor:
		return ConditionPoor, true
	default:
		return "", false
	}
}
