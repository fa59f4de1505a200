package reconcile

import (
	"time"

	"github.com/sells-group/leadtrack-cli/internal/model"
)

// Follow-up window in whole days since acceptance for an uncontacted
// accepted lead.
const (
	followUpMinDays = 5
	followUpMaxDays = 7
)

// Accept records that a pending outbound request was accepted. It is a
// no-op on leads that are not pending.
func Accept(lead *model.Lead, now time.Time) bool {
	if lead.Direction != model.DirectionOutboundPending {
		return false
	}
	lead.Direction = model.DirectionOutboundAccepted
	lead.AcceptanceDate = model.FormatDate(now)
	lead.UpdatedAt = now.UnixMilli()
	return true
}

// MarkContacted stamps the lead as contacted today.
func MarkContacted(lead *model.Lead, now time.Time) bool {
	if lead.Contacted {
		return false
	}
	lead.Contacted = true
	lead.ContactedDate = model.FormatDate(now)
	lead.UpdatedAt = now.UnixMilli()
	return true
}

// MarkUncontacted reverts a contact mark, clearing its date.
func MarkUncontacted(lead *model.Lead, now time.Time) bool {
	if !lead.Contacted {
		return false
	}
	lead.Contacted = false
	lead.ContactedDate = ""
	lead.UpdatedAt = now.UnixMilli()
	return true
}

// MarkConverted records a conversion.
func MarkConverted(lead *model.Lead, now time.Time) bool {
	if lead.Converted {
		return false
	}
	lead.Converted = true
	lead.ConversionDate = model.FormatDate(now)
	lead.UpdatedAt = now.UnixMilli()
	return true
}

// FollowUpDue reports whether the lead sits in the follow-up window:
// accepted, not yet contacted, acceptance between five and seven whole
// days ago.
func FollowUpDue(lead model.Lead, now time.Time) bool {
	if lead.Contacted || lead.Direction == model.DirectionOutboundPending {
		return false
	}
	days, ok := model.DaysSince(lead.AcceptanceDate, now)
	if !ok {
		return false
	}
	return days >= followUpMinDays && days <= followUpMaxDays
}
