package enums

import "strings"

type ReportReason string

const (
	ReportReasonInappropriate ReportReason = "inappropriate"
	ReportReasonSpam          ReportReason = "spam"
	ReportReasonScam          ReportReason = "scam"
	ReportReasonProhibited    ReportReason = "prohibited"
	ReportReasonMisleading    ReportReason = "misleading"
	ReportReasonSafety        ReportReason = "safety"
	ReportReasonOther         ReportReason = "other"
)

func ParseReportReason(value string) (ReportReason, bool) {
	switch ReportReason(strings.ToLower(strings.TrimSpace(value))) {
	case ReportReasonInappropriate:
		return ReportReasonInappropriate, true
	case ReportReasonSpam:
		return ReportReasonSpam, true
	case ReportReasonScam:
		return ReportReasonScam, true
	case ReportReasonProhibited:
		return ReportReasonProhibited, true
	case ReportReasonMisleading:
		return ReportReasonMisleading, true
	case ReportReasonSafety:
		return ReportReasonSafety, true
	case ReportReasonOther:
		return ReportReasonOther, true
	default:
		return "", false
	}
}
