package workflow

// Role is the actor class requesting a transition. RoleSystem covers the
// payment verification path and the scheduled sweep; it is never carried
// in a JWT.
type Role string

const (
	RoleStudent Role = "student"
	RoleMentor  Role = "mentor"
	RoleSystem  Role = "system"
)

// roleTargets answers "may this actor class ever request this target
// status", independent of the current workflow state. Stateful checks
// (fees, artifacts, graph edges) belong to Decide.
var roleTargets = map[Role][]Status{
	// Students only move their own request forward out of payment or
	// resubmission, never through mentor review outcomes.
	RoleStudent: {StatusResumeReview},
	RoleMentor: {
		StatusChangesRequested,
		StatusApprovedForReferral,
		StatusReferralSent,
		StatusUnderReview,
		StatusReferralAccepted,
		StatusReferralRejected,
	},
	// Only the payment verification path and the pending-payment sweep
	// may set these; no user role reaches COMPLETED directly.
	RoleSystem: {StatusPaymentPending, StatusCompleted},
}

// CanPerform reports whether role is ever allowed to request target.
func CanPerform(role Role, target Status) bool {
	for _, s := range roleTargets[role] {
		if s == target {
			return true
		}
	}
	return false
}
